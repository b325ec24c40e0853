package blog

import (
	"errors"
)

// ErrEmptyEntryID is returned when an entry id is parsed from an empty string.
var ErrEmptyEntryID = errors.New("entry id is empty")

// EntryID identifies one entry within a blog. It is the trailing path segment
// of the entry's edit link. An EntryID obtained through ParseEntryID is never
// empty; the zero value is invalid and only appears alongside an error.
type EntryID struct {
	value string
}

// ParseEntryID validates s and wraps it verbatim: no trimming, no case
// normalization, no character-set restriction.
func ParseEntryID(s string) (EntryID, error) {
	if s == "" {
		return EntryID{}, ErrEmptyEntryID
	}
	return EntryID{value: s}, nil
}

func (id EntryID) String() string {
	return id.value
}
