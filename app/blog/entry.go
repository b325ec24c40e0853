package blog

import (
	"time"
)

// Entry is a single blog post as the AtomPub API describes it. An Entry is
// only ever produced by parsing a provider document; every field is required
// at parse time and the value is never mutated afterwards.
type Entry struct {
	AuthorName string
	Categories []string
	Content    string
	Draft      bool
	EditURL    string
	Edited     time.Time
	ID         EntryID
	Published  time.Time
	Title      string
	Updated    time.Time
	URL        string
}
