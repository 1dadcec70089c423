package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an identifier resolves to no stored task.
	ErrNotFound = errors.New("task not found")

	// ErrMalformedRecord is returned when a record block is missing
	// required fields and the file cannot be decoded.
	ErrMalformedRecord = errors.New("malformed task record")
)

// AmbiguousIDError is returned when an identifier prefix matches more
// than one stored task. It is always surfaced; a match is never picked
// silently.
type AmbiguousIDError struct {
	Prefix  string
	Matches []Match
}

// Match identifies one of the tasks matching an ambiguous prefix.
type Match struct {
	ID    string
	Title string
}

func (e *AmbiguousIDError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "task id %q is ambiguous: matches %d tasks:", e.Prefix, len(e.Matches))
	for _, m := range e.Matches {
		fmt.Fprintf(&b, "\n  %s  %s", shortID(m.ID), m.Title)
	}
	return b.String()
}
