package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pa-ulander/color-buddy/internal/color"
	"github.com/pa-ulander/color-buddy/internal/config"
	"github.com/pa-ulander/color-buddy/internal/registry"
	"github.com/pa-ulander/color-buddy/internal/scanner"
)

var (
	flagCheck bool
	version   = "dev" // Injected at build time via ldflags
)

var rootCmd = &cobra.Command{
	Use:     "color-buddy",
	Short:   "Inspect color literals and CSS custom properties across stylesheets",
	Version: version,
}

var scanCmd = &cobra.Command{
	Use:   "scan [files...]",
	Short: "List custom-property declarations found in CSS files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScan,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <name> [files...]",
	Short: "Resolve a custom property through the given CSS files",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runResolve,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format color-buddy configuration files",
	Long:  "Format one or more HCL configuration files in-place. Prints the name of each file that was modified.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "check if files are formatted (do not write changes)")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)
}

// scanFiles reads each file into a fresh registry.
func scanFiles(paths []string) (*registry.Registry, error) {
	reg := registry.New()
	s := scanner.New()
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		s.ScanInto(reg, path, string(src))
	}
	return reg, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	reg, err := scanFiles(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range reg.VariableNames() {
		decls, _ := reg.Variable(name)
		resolved := registry.Resolve("var("+name+")", reg, nil)

		display := resolved
		if parsed, err := color.Parse(resolved); err == nil {
			if hex, ok := color.FormatAs(parsed.Value, color.HexAlpha); ok {
				display = fmt.Sprintf("%s (%s)", resolved, hex)
			}
		}
		fmt.Fprintf(out, "%s: %s [%d declaration(s)]\n", name, display, len(decls))
	}

	for _, name := range reg.ClassNames() {
		decls, _ := reg.Class(name)
		fmt.Fprintf(out, ".%s: %d color propert(ies)\n", name, len(decls))
	}
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	name := args[0]
	reg, err := scanFiles(args[1:])
	if err != nil {
		return err
	}

	if !reg.HasVariable(name) {
		return fmt.Errorf("no declaration found for %s", name)
	}

	out := cmd.OutOrStdout()
	cycles := []string{}
	resolved := registry.Resolve("var("+name+")", reg, func(n string) {
		cycles = append(cycles, n)
	})
	fmt.Fprintf(out, "%s = %s\n", name, resolved)
	for _, n := range cycles {
		fmt.Fprintf(out, "warning: circular reference through %s\n", n)
	}

	decls, _ := reg.VariableSorted(name)
	for _, d := range decls {
		selector := d.Selector
		if selector == "" {
			selector = "(media)"
		}
		fmt.Fprintf(out, "  %s:%d  %s  specificity=%d theme=%s\n",
			d.Origin, d.Line+1, selector, d.Context.Specificity, d.Context.Theme)
	}
	return nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		formatted := config.Format(src)
		if string(formatted) == string(src) {
			continue
		}

		if flagCheck {
			return fmt.Errorf("%s is not formatted", path)
		}
		if err := os.WriteFile(path, formatted, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
