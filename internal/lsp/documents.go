package lsp

import "sync"

// Document is one open document's content at a specific version.
type Document struct {
	Content string
	Version int32
}

// DocumentStore holds open documents keyed by URI.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]Document)}
}

func (s *DocumentStore) Open(uri, content string, version int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = Document{Content: content, Version: version}
}

func (s *DocumentStore) Update(uri, content string, version int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = Document{Content: content, Version: version}
}

func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *DocumentStore) Get(uri string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}
