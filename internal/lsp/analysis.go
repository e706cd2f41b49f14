package lsp

import (
	"context"

	"github.com/pa-ulander/color-buddy/internal/pipeline"
)

// refresh rescans the document into the registry and recomputes its color
// occurrences, coalesced through the scheduler. Rapid edits collapse into
// one run at the highest version; a document already being refreshed queues
// exactly one follow-up.
func (s *Server) refresh(uri string, version int32, immediate bool) {
	s.analyzer.ScheduleRefresh(uri, version, func(ctx context.Context) error {
		doc, ok := s.docs.Get(uri)
		if !ok {
			return nil // closed while the refresh was pending
		}
		s.scanner.ScanInto(s.registry, uri, doc.Content)
		_, err := s.analyzer.EnsureData(ctx, uri, doc.Version, doc.Content)
		return err
	}, immediate)
}

// occurrences returns the color occurrences for the document's current
// version, computing them on demand when no refresh has landed yet.
func (s *Server) occurrences(uri string) []pipeline.Occurrence {
	doc, ok := s.docs.Get(uri)
	if !ok {
		return nil
	}
	if occs, ok := s.analyzer.Cached(uri, doc.Version); ok {
		return occs
	}
	occs, err := s.analyzer.EnsureData(context.Background(), uri, doc.Version, doc.Content)
	if err != nil {
		return nil
	}
	return occs
}
