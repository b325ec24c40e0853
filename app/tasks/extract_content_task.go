package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/hatena-atom/app/archive"
	"github.com/lysyi3m/hatena-atom/app/content"
)

const extractionBatchSize = 20

// ExtractContentTask fetches archived entries' public pages and stores their
// readable article bodies alongside the raw content.
type ExtractContentTask struct {
	Task
	httpClient *http.Client
	extractor  *content.Extractor
	repo       EntryArchive
	userAgent  string
}

func NewExtractContentTask(httpClient *http.Client, extractor *content.Extractor, repo EntryArchive, userAgent string) *ExtractContentTask {
	return &ExtractContentTask{
		Task:       NewTask(TaskTypeExtractContent),
		httpClient: httpClient,
		extractor:  extractor,
		repo:       repo,
		userAgent:  userAgent,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	entries, err := t.repo.GetEntriesForExtraction(extractionBatchSize)
	if err != nil {
		return fmt.Errorf("failed to get entries for content extraction: %w", err)
	}

	if len(entries) == 0 {
		slog.Debug("No entries need content extraction")
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.extractContentForEntry(ctx, entry); err != nil {
			slog.Error("Failed to extract content for entry", "id", entry.ID, "url", entry.URL, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractContentTask) extractContentForEntry(ctx context.Context, entry archive.EntryForExtraction) error {
	data, err := t.fetchEntryPage(ctx, entry.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch entry page: %w", err)
	}

	extractedContent, err := t.extractor.Run(data, entry.URL)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}

	now := time.Now().UTC()
	if err := t.repo.UpdateExtractedContent(entry.ID, extractedContent, now); err != nil {
		return fmt.Errorf("failed to store extracted content: %w", err)
	}

	slog.Debug("Content extracted successfully", "id", entry.ID, "url", entry.URL, "content_length", len(extractedContent))
	return nil
}

func (t *ExtractContentTask) fetchEntryPage(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
