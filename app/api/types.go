package api

import (
	"github.com/lysyi3m/hatena-atom/app/archive"
	"github.com/lysyi3m/hatena-atom/app/tasks"
)

// Handler serves the local archive over HTTP. It never talks to the remote
// API directly; writes happen through the scheduler's sync tasks.
type Handler struct {
	repo        *archive.EntryRepository
	scheduler   tasks.TaskSchedulerInterface
	newSyncTask func() tasks.TaskInterface
	version     string
}

const defaultPageSize = 50
const maxPageSize = 200
