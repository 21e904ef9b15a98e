// Package editor turns pointer gestures into document updates.
//
// A Session runs at most one gesture at a time (drag, item resize, column
// resize or region boundary resize). Every frame is computed from the
// document and pointer position captured when the gesture began, so long
// drags do not accumulate rounding error. The resulting snapshot replaces
// the document held by a Store in one step.
//
// The mutation functions (DragItem, ResizeItem, ResizeColumns, MoveBoundary)
// are pure: they take a document and return a new one, leaving history to
// the Store.
package editor

import (
	"sync"

	"github.com/lvillar/pagelayout/model"
)

// Store is the state holder the editor reads from and writes to. Documents
// passed through it are immutable snapshots.
type Store interface {
	Document() *model.Document
	SetDocument(doc *model.Document)
	RecordUndoSnapshot()
	Select(ref model.ItemRef)
}

// MemoryStore is an in-memory Store with linear undo and redo stacks.
type MemoryStore struct {
	mu       sync.Mutex
	doc      *model.Document
	undo     []*model.Document
	redo     []*model.Document
	limit    int
	sel      model.ItemRef
	selected bool
}

// NewMemoryStore creates a store holding doc. A limit of 0 keeps unlimited history.
func NewMemoryStore(doc *model.Document, limit int) *MemoryStore {
	return &MemoryStore{doc: doc, limit: limit}
}

// Document returns the current snapshot.
func (s *MemoryStore) Document() *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// SetDocument replaces the current snapshot.
func (s *MemoryStore) SetDocument(doc *model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
}

// Update replaces the current snapshot with fn applied to it.
func (s *MemoryStore) Update(fn func(*model.Document) *model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = fn(s.doc)
}

// RecordUndoSnapshot pushes the current snapshot onto the undo stack and
// clears the redo stack.
func (s *MemoryStore) RecordUndoSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = append(s.undo, s.doc)
	if s.limit > 0 && len(s.undo) > s.limit {
		s.undo = s.undo[len(s.undo)-s.limit:]
	}
	s.redo = nil
}

// Undo restores the previous snapshot. It reports false when there is none.
func (s *MemoryStore) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undo) == 0 {
		return false
	}
	s.redo = append(s.redo, s.doc)
	s.doc = s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	return true
}

// Redo reapplies the last undone snapshot.
func (s *MemoryStore) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redo) == 0 {
		return false
	}
	s.undo = append(s.undo, s.doc)
	s.doc = s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	return true
}

// Select records the current selection.
func (s *MemoryStore) Select(ref model.ItemRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = ref
	s.selected = true
}

// Selection returns the selected item, if any.
func (s *MemoryStore) Selection() (model.ItemRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel, s.selected
}
