package workspace

import (
	"time"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/id"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
)

// WorkspaceRecord is one entry of the recent-workspace list
type WorkspaceRecord struct {
	Path       paths.Path `json:"path"`
	LastOpened time.Time  `json:"last_opened"`
}

// BookmarkRecord is a user-created shortcut to a path
type BookmarkRecord struct {
	ID    id.BookmarkID `json:"id"`
	Path  paths.Path    `json:"path"`
	Label string        `json:"label"`
}

// OpenedCache is the session state shown by the UI on startup
type OpenedCache struct {
	Current *paths.Path       `json:"current,omitempty"`
	Recent  []WorkspaceRecord `json:"recent"`
}
