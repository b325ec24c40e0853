package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/hatena-atom/app/archive"
	"github.com/lysyi3m/hatena-atom/app/tasks"
)

func NewHandler(repo *archive.EntryRepository, scheduler tasks.TaskSchedulerInterface,
	newSyncTask func() tasks.TaskInterface, version string) *Handler {
	return &Handler{
		repo:        repo,
		scheduler:   scheduler,
		newSyncTask: newSyncTask,
		version:     version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
	}

	if entryCount, err := h.repo.GetEntryCount(); err == nil {
		health["entries"] = entryCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListEntries(c *gin.Context) {
	limit := parseIntQuery(c, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := parseIntQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := h.repo.ListEntries(limit, offset)
	if err != nil {
		slog.Error("Database error", "operation", "list_entries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	summaries := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		summaries = append(summaries, map[string]interface{}{
			"id":         entry.ID,
			"title":      entry.Title,
			"author":     entry.AuthorName,
			"draft":      entry.Draft,
			"url":        entry.URL,
			"categories": entry.Categories,
			"published":  entry.Published.Format(time.RFC3339),
			"updated":    entry.Updated.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"entries": summaries,
		"count":   len(summaries),
		"offset":  offset,
	})
}

func (h *Handler) GetEntry(c *gin.Context) {
	entry, ok := h.lookupEntry(c)
	if !ok {
		return
	}

	response := map[string]interface{}{
		"id":         entry.ID,
		"title":      entry.Title,
		"author":     entry.AuthorName,
		"content":    entry.Content,
		"draft":      entry.Draft,
		"url":        entry.URL,
		"edit_url":   entry.EditURL,
		"categories": entry.Categories,
		"published":  entry.Published.Format(time.RFC3339),
		"updated":    entry.Updated.Format(time.RFC3339),
		"edited":     entry.Edited.Format(time.RFC3339),
		"synced_at":  entry.SyncedAt.Format(time.RFC3339),
	}
	if entry.ExtractedAt != nil {
		response["extracted_at"] = entry.ExtractedAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetEntryReadable(c *gin.Context) {
	entry, ok := h.lookupEntry(c)
	if !ok {
		return
	}

	if entry.ExtractedContent == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No readable content extracted for this entry yet"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, entry.ExtractedContent)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.repo.ListCategories()
	if err != nil {
		slog.Error("Database error", "operation", "list_categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
		"total":      len(categories),
	})
}

func (h *Handler) APITriggerSync(c *gin.Context) {
	if h.scheduler == nil || h.newSyncTask == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Background sync is not running"})
		return
	}

	if err := h.scheduler.EnqueueTask(h.newSyncTask()); err != nil {
		slog.Error("Error enqueueing sync task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Sync task enqueued",
	})
}

func (h *Handler) lookupEntry(c *gin.Context) (*archive.ArchivedEntry, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing entry ID parameter"})
		return nil, false
	}

	entry, err := h.repo.GetEntry(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_entry", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not archived"})
		return nil, false
	}

	return entry, true
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
