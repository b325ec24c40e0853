package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lysyi3m/hatena-atom/app/blog"
)

// EntryRepository handles database operations for archived entries
type EntryRepository struct {
	db *DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// UpsertEntry stores a remote entry, replacing any previous snapshot of it.
// Extracted content survives the upsert; it is tied to the public URL, which
// the remote side never changes for an existing entry.
func (r *EntryRepository) UpsertEntry(entry *blog.Entry) error {
	categories, err := json.Marshal(entry.Categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = r.db.Exec(`
		INSERT INTO entries (
			id, title, author_name, content, draft, url, edit_url,
			categories, published, updated, edited, synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			author_name = excluded.author_name,
			content = excluded.content,
			draft = excluded.draft,
			url = excluded.url,
			edit_url = excluded.edit_url,
			categories = excluded.categories,
			published = excluded.published,
			updated = excluded.updated,
			edited = excluded.edited,
			synced_at = excluded.synced_at
	`, entry.ID.String(), entry.Title, entry.AuthorName, entry.Content, entry.Draft,
		entry.URL, entry.EditURL, string(categories),
		entry.Published.Format(time.RFC3339), entry.Updated.Format(time.RFC3339),
		entry.Edited.Format(time.RFC3339), now)

	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}

	return nil
}

// GetEntry retrieves an archived entry by its ID, or nil if it is not archived
func (r *EntryRepository) GetEntry(id string) (*ArchivedEntry, error) {
	row := r.db.QueryRow(`
		SELECT id, title, author_name, content, draft, url, edit_url,
		       categories, published, updated, edited,
		       COALESCE(extracted_content, ''), extracted_at, created_at, synced_at
		FROM entries
		WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

// ListEntries returns archived entries ordered by publication time, newest first
func (r *EntryRepository) ListEntries(limit, offset int) ([]ArchivedEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, title, author_name, content, draft, url, edit_url,
		       categories, published, updated, edited,
		       COALESCE(extracted_content, ''), extracted_at, created_at, synced_at
		FROM entries
		ORDER BY published DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []ArchivedEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, nil
}

// DeleteEntry removes an archived entry
func (r *EntryRepository) DeleteEntry(id string) error {
	_, err := r.db.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// GetEntryCount returns the total number of archived entries
func (r *EntryRepository) GetEntryCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get entry count: %w", err)
	}
	return count, nil
}

// ListCategories returns every category used by archived entries, deduplicated
// in first-seen order walking from the newest entry down
func (r *EntryRepository) ListCategories() ([]string, error) {
	rows, err := r.db.Query(`
		SELECT categories FROM entries ORDER BY published DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	categories := []string{}
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("failed to scan categories row: %w", err)
		}

		var entryCategories []string
		if err := json.Unmarshal([]byte(encoded), &entryCategories); err != nil {
			return nil, fmt.Errorf("failed to decode categories: %w", err)
		}
		for _, category := range entryCategories {
			if !seen[category] {
				seen[category] = true
				categories = append(categories, category)
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

// GetEntriesForExtraction returns published entries whose readable content has
// not been extracted yet
func (r *EntryRepository) GetEntriesForExtraction(limit int) ([]EntryForExtraction, error) {
	rows, err := r.db.Query(`
		SELECT id, url FROM entries
		WHERE extracted_at IS NULL AND url != '' AND draft = 0
		ORDER BY published DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries for extraction: %w", err)
	}
	defer rows.Close()

	var entries []EntryForExtraction
	for rows.Next() {
		var entry EntryForExtraction
		if err := rows.Scan(&entry.ID, &entry.URL); err != nil {
			return nil, fmt.Errorf("failed to scan extraction row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating extraction rows: %w", err)
	}

	return entries, nil
}

// UpdateExtractedContent stores the readable content for an entry
func (r *EntryRepository) UpdateExtractedContent(id string, content string, extractedAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE entries
		SET extracted_content = ?, extracted_at = ?
		WHERE id = ?
	`, content, extractedAt.UTC().Format(time.RFC3339), id)

	if err != nil {
		return fmt.Errorf("failed to update extracted content: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*ArchivedEntry, error) {
	var entry ArchivedEntry
	var categories string
	var published, updated, edited, createdAt, syncedAt string
	var extractedAt sql.NullString

	err := row.Scan(
		&entry.ID, &entry.Title, &entry.AuthorName, &entry.Content, &entry.Draft,
		&entry.URL, &entry.EditURL, &categories, &published, &updated, &edited,
		&entry.ExtractedContent, &extractedAt, &createdAt, &syncedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(categories), &entry.Categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	for _, field := range []struct {
		dst *time.Time
		src string
	}{
		{&entry.Published, published},
		{&entry.Updated, updated},
		{&entry.Edited, edited},
		{&entry.CreatedAt, createdAt},
		{&entry.SyncedAt, syncedAt},
	} {
		t, err := time.Parse(time.RFC3339, field.src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored timestamp: %w", err)
		}
		*field.dst = t
	}

	if extractedAt.Valid {
		t, err := time.Parse(time.RFC3339, extractedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse extraction timestamp: %w", err)
		}
		entry.ExtractedAt = &t
	}

	return &entry, nil
}
