package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/hatena-atom/app/archive"
	"github.com/lysyi3m/hatena-atom/app/blog"
)

// TaskSchedulerInterface defines the interface for background task scheduling.
// Used by the serve command to keep the local archive in step with the remote
// blog.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// EntryLister is the slice of the API client the sync task needs.
type EntryLister interface {
	ListEntriesInPage(ctx context.Context, page string) (blog.ListEntriesResponse, error)
}

// EntryArchive is the slice of the archive repository the tasks write through.
type EntryArchive interface {
	UpsertEntry(entry *blog.Entry) error
	GetEntriesForExtraction(limit int) ([]archive.EntryForExtraction, error)
	UpdateExtractedContent(id string, content string, extractedAt time.Time) error
}
