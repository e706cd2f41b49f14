// Package pipeline wires detection, the declaration registry, the versioned
// result cache and the refresh scheduler into one per-resource recomputation
// pipeline.
package pipeline

import (
	"context"

	"github.com/tliron/commonlog"

	"github.com/pa-ulander/color-buddy/internal/cache"
	"github.com/pa-ulander/color-buddy/internal/registry"
	"github.com/pa-ulander/color-buddy/internal/schedule"
)

// Analyzer computes color occurrences per (resource, version), deduplicating
// concurrent computations and coalescing refresh requests.
type Analyzer struct {
	Registry *registry.Registry

	cache *cache.Cache[[]Occurrence]
	sched *schedule.Scheduler
	log   commonlog.Logger
}

func NewAnalyzer(reg *registry.Registry, cfg schedule.Config) *Analyzer {
	return &Analyzer{
		Registry: reg,
		cache:    cache.New[[]Occurrence](),
		sched:    schedule.New(cfg),
		log:      commonlog.GetLogger("pipeline"),
	}
}

// EnsureData returns the color occurrences for the resource at the given
// version, computing them at most once per (key, version) no matter how many
// callers overlap.
func (a *Analyzer) EnsureData(ctx context.Context, key string, version int32, text string) ([]Occurrence, error) {
	return a.cache.GetOrCompute(ctx, key, version, func(context.Context) ([]Occurrence, error) {
		occs := Detect(text, a.Registry, func(name string) {
			a.log.Warningf("circular reference through %s in %s", name, key)
		})
		a.log.Debugf("%s@%d: %d color occurrences", key, version, len(occs))
		return occs, nil
	})
}

// Cached returns the occurrences for (key, version) without computing.
func (a *Analyzer) Cached(key string, version int32) ([]Occurrence, bool) {
	return a.cache.Get(key, version)
}

// ScheduleRefresh coalesces a refresh of the resource at the given version.
// The runner's measured execution time feeds the scheduler's adaptive delay.
func (a *Analyzer) ScheduleRefresh(key string, version int32, runner schedule.Runner, immediate bool) *schedule.Completion {
	return a.sched.Schedule(key, version, runner, schedule.Options{Immediate: immediate})
}

// CancelRefresh drops any pending refresh for the resource.
func (a *Analyzer) CancelRefresh(key string) {
	a.sched.Cancel(key)
}

// CloseResource disposes all cached and scheduled state for the resource.
func (a *Analyzer) CloseResource(key string) {
	a.cache.Delete(key)
	a.sched.Forget(key)
}

// Close shuts the scheduler down. In-flight runners finish on their own.
func (a *Analyzer) Close() {
	a.sched.Close()
	a.cache.Clear()
}
