package archive

import (
	"time"
)

// ArchivedEntry is one blog entry as stored locally. Timestamps are kept in
// RFC 3339 text columns; the original zone offsets survive the round-trip.
type ArchivedEntry struct {
	ID               string
	Title            string
	AuthorName       string
	Content          string
	Draft            bool
	URL              string
	EditURL          string
	Categories       []string
	Published        time.Time
	Updated          time.Time
	Edited           time.Time
	ExtractedContent string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
	SyncedAt         time.Time
}

type EntryForExtraction struct {
	ID  string
	URL string
}
