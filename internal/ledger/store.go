// Package ledger implements the in-memory budget ledger: the document
// store, transaction bookkeeping, the recurring engine and the savings
// tracker. Every mutation preserves the category-spent consistency rule:
// a category's recorded spend always equals the sum of the amounts of the
// transactions currently referencing it.
package ledger

import (
	"sync"

	"tirelire/internal/core"
)

// Store owns the single in-memory document. It holds no business rules;
// the operation components below mutate the document through it. The mutex
// serializes mutations because HTTP handlers run concurrently even though
// the logical model is single-writer.
type Store struct {
	mu  sync.Mutex
	doc *core.Document
}

func NewStore(doc *core.Document) *Store {
	doc.Normalize()
	return &Store{doc: doc}
}

// Snapshot returns a deep copy of the current document, safe to hand to
// encoders and gateways without holding the lock.
func (s *Store) Snapshot() *core.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Replace swaps in a freshly loaded document.
func (s *Store) Replace(doc *core.Document) {
	doc.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
}

// update runs fn against the live document under the store lock.
func (s *Store) update(fn func(doc *core.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.doc)
}

// view runs fn against the live document under the store lock without
// mutating it. fn must not retain references to document internals.
func (s *Store) view(fn func(doc *core.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.doc)
}
