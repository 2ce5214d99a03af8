package models

import "errors"

// NotesRef is the notes reference holding time annotations.
const NotesRef = "refs/notes/gtm-data"

var ErrNoteNotFound = errors.New("note not found")

// NotesRepositoryInterface reads the time annotations of one repository.
// Annotations are written by gtm itself, never here.
type NotesRepositoryInterface interface {
	Note(hash string) (string, error)
	ForEachNote(fn func(info CommitInfo, note string) error) error
}

// EventStoreInterface persists raw file events of a working directory.
type EventStoreInterface interface {
	ReadEvents(dir string) ([]FileEvent, error)
	WriteEvent(dir string, event FileEvent) error
}
