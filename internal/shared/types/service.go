package types

// Category represents service categories
type Category string

const (
	CategoryFilesystem Category = "filesystem"
	CategoryWorkspace  Category = "workspace"
	CategorySystem     Category = "system"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	switch c {
	case CategoryFilesystem, CategoryWorkspace, CategorySystem:
		return true
	}
	return false
}

// Service represents a service definition
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool represents a service tool
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
	// Mutating tools run to completion once started; read-only tools honor cancellation
	Mutating bool `json:"mutating"`
}

// Parameter represents a tool parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Context provides execution context for services
type Context struct {
	RequestID string `json:"request_id,omitempty"`
	TaskID    string `json:"task_id,omitempty"`
}

// Result represents a service execution result
type Result struct {
	Success   bool                   `json:"success"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     *string                `json:"error,omitempty"`
	ErrorKind string                 `json:"error_kind,omitempty"`
}
