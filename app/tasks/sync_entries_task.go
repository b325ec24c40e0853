package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/lysyi3m/hatena-atom/app/blog"
)

// SyncEntriesTask walks the remote entry collection page by page and mirrors
// every entry into the local archive.
type SyncEntriesTask struct {
	Task
	client      EntryLister
	repo        EntryArchive
	workerCount int
}

func NewSyncEntriesTask(client EntryLister, repo EntryArchive, workerCount int) *SyncEntriesTask {
	if workerCount < 1 {
		workerCount = 1
	}

	return &SyncEntriesTask{
		Task:        NewTask(TaskTypeSyncEntries),
		client:      client,
		repo:        repo,
		workerCount: workerCount,
	}
}

func (t *SyncEntriesTask) Execute(ctx context.Context) error {
	entryQueue := make(chan *blog.Entry, 100)
	var successCount, errorCount atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < t.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range entryQueue {
				if err := t.repo.UpsertEntry(entry); err != nil {
					slog.Warn("Failed to archive entry", "id", entry.ID, "error", err)
					errorCount.Add(1)
					continue
				}
				successCount.Add(1)
			}
		}()
	}

	// Page walk stays sequential: each page's cursor comes from the previous
	// response.
	walkErr := t.walkPages(ctx, entryQueue)
	close(entryQueue)
	wg.Wait()

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"success", successCount.Load(),
		"errors", errorCount.Load())

	return walkErr
}

func (t *SyncEntriesTask) walkPages(ctx context.Context, entryQueue chan<- *blog.Entry) error {
	page := ""
	pageCount := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		response, err := t.client.ListEntriesInPage(ctx, page)
		if err != nil {
			return fmt.Errorf("failed to fetch entry page: %w", err)
		}

		nextPage, entries, err := response.EntryList()
		if err != nil {
			return fmt.Errorf("failed to parse entry page: %w", err)
		}

		pageCount++
		slog.Debug("Fetched entry page", "page", pageCount, "entries", len(entries))

		for _, entry := range entries {
			select {
			case entryQueue <- entry:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if nextPage == "" {
			return nil
		}
		page = nextPage
	}
}
