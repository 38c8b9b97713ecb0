package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

// Size limits (in bytes)
const (
	MaxJSONSize  = 64 * 1024 * 1024 // request bodies carry file content
	MaxLabelSize = 256
)

// MaxParamDepth bounds nesting of command parameters
const MaxParamDepth = 8

// ToolIDPattern allows alphanumeric, hyphens, underscores, and dots (for service.tool format)
var ToolIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+\.[a-zA-Z0-9._-]+$`)

// ValidateToolID validates a service.tool identifier
func ValidateToolID(id string) error {
	if id == "" {
		return fmt.Errorf("tool_id is required")
	}
	if len(id) > 128 {
		return fmt.Errorf("tool_id must be at most 128 characters")
	}
	if !ToolIDPattern.MatchString(id) {
		return fmt.Errorf("tool_id must have the form service.tool")
	}
	return nil
}

// ValidateLabel validates a user supplied display label
func ValidateLabel(label string) error {
	if !utf8.ValidString(label) {
		return fmt.Errorf("label must be valid UTF-8")
	}
	if len(label) > MaxLabelSize {
		return fmt.Errorf("label must be at most %d bytes", MaxLabelSize)
	}
	if strings.ContainsAny(label, "\x00\n\r") {
		return fmt.Errorf("label must be a single line")
	}
	return nil
}

// ValidateJSON checks size and syntax of a JSON document
func ValidateJSON(data []byte) error {
	if len(data) > MaxJSONSize {
		return fmt.Errorf("JSON size %d exceeds maximum %d bytes", len(data), MaxJSONSize)
	}
	if !sonic.Valid(data) {
		return fmt.Errorf("invalid JSON")
	}
	return nil
}

// ValidateParamDepth rejects parameter maps nested deeper than maxDepth
func ValidateParamDepth(data interface{}, maxDepth int) error {
	return checkDepth(data, 0, maxDepth)
}

func checkDepth(data interface{}, currentDepth int, maxDepth int) error {
	if currentDepth > maxDepth {
		return fmt.Errorf("parameters exceed maximum depth of %d", maxDepth)
	}

	switch v := data.(type) {
	case map[string]interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	case []interface{}:
		for _, item := range v {
			if err := checkDepth(item, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	}
	return nil
}
