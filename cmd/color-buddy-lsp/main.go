package main

import (
	"os"

	"github.com/pa-ulander/color-buddy/internal/config"
	"github.com/pa-ulander/color-buddy/internal/lsp"
	"github.com/pa-ulander/color-buddy/internal/scanner"
)

var version = "dev"

func main() {
	cfg := config.Default()
	if path := os.Getenv("COLOR_BUDDY_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			os.Exit(1)
		}
		cfg = loaded
	}

	var scan *scanner.Scanner
	if props := cfg.ScannerBlock.ClassProperties; len(props) > 0 {
		scan = scanner.NewWithProperties(props)
	}

	s := lsp.NewServer(version, cfg.SchedulerConfig(), scan)
	if err := s.Run(); err != nil {
		os.Exit(1)
	}
}
