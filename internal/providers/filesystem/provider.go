package filesystem

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

// Provider exposes the file engine on the command surface
type Provider struct {
	*FilesystemOps

	basic      *BasicOps
	directory  *DirectoryOps
	operations *OperationsOps
	trash      *TrashOps
	search     *SearchOps
	metadata   *MetadataOps
	export     *ExportOps

	tools    []types.Tool
	handlers map[string]handler
}

// NewProvider wires the tool groups around ops
func NewProvider(ops *FilesystemOps) *Provider {
	p := &Provider{
		FilesystemOps: ops,
		basic:         &BasicOps{FilesystemOps: ops},
		directory:     &DirectoryOps{FilesystemOps: ops},
		operations:    &OperationsOps{FilesystemOps: ops},
		trash:         &TrashOps{FilesystemOps: ops},
		search:        &SearchOps{FilesystemOps: ops},
		metadata:      &MetadataOps{FilesystemOps: ops},
		export:        &ExportOps{FilesystemOps: ops},
	}

	p.handlers = map[string]handler{
		"filesystem.get_file_content":       p.basic.ReadText,
		"filesystem.read_binary":            p.basic.ReadBinary,
		"filesystem.write_file":             p.basic.WriteText,
		"filesystem.write_u8_array_to_file": p.basic.WriteBinary,
		"filesystem.file_exists":            p.basic.Exists,
		"filesystem.stat":                   p.basic.Stat,
		"filesystem.path_join":              p.basic.Join,

		"filesystem.open_folder":   p.directory.List,
		"filesystem.create_folder": p.directory.Create,
		"filesystem.delete_folder": p.directory.Delete,
		"filesystem.walk":          p.directory.Walk,

		"filesystem.delete_file":          p.operations.Delete,
		"filesystem.copy_file":            p.operations.Copy,
		"filesystem.move_files_to_folder": p.operations.Move,
		"filesystem.rename_fs":            p.operations.Rename,

		"filesystem.trash_delete": p.trash.Delete,

		"filesystem.search_files": p.search.Search,

		"filesystem.folder_summary": p.metadata.Summary,
		"filesystem.detect_type":    p.metadata.DetectType,

		"filesystem.export_html": p.export.Export,
	}

	var tools []types.Tool
	tools = append(tools, p.basic.GetTools()...)
	tools = append(tools, p.directory.GetTools()...)
	tools = append(tools, p.operations.GetTools()...)
	tools = append(tools, p.trash.GetTools()...)
	tools = append(tools, p.search.GetTools()...)
	tools = append(tools, p.metadata.GetTools()...)
	tools = append(tools, p.export.GetTools()...)
	p.tools = tools

	return p
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Service",
		Description: "File reads and writes, folder management, trash, search and export",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"read",
			"write",
			"create",
			"delete",
			"trash",
			"move",
			"copy",
			"rename",
			"walk",
			"search",
			"export",
		},
		Tools: p.tools,
	}
}

// Execute runs a filesystem operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	h, ok := p.handlers[toolID]
	if !ok {
		return Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
	if params == nil {
		params = map[string]interface{}{}
	}
	return h(ctx, params, appCtx)
}
