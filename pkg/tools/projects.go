package tools

import (
	"context"
	"net/url"

	"mcp-deployment-service/pkg/schema"
)

// ListProjectsTool lists all projects
type ListProjectsTool struct{ Base }

// NewListProjectsTool creates a new ListProjectsTool instance
func NewListProjectsTool(backend Backend) *ListProjectsTool {
	return &ListProjectsTool{NewBase(backend,
		"list_projects",
		"List all projects",
		schema.Object(),
		resourceListOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *ListProjectsTool) Execute(ctx context.Context, _ schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, "/projects", nil)
	if err != nil {
		return Result{}, err
	}
	return ListResult(resp), nil
}

// GetProjectTool fetches one project
type GetProjectTool struct{ Base }

// NewGetProjectTool creates a new GetProjectTool instance
func NewGetProjectTool(backend Backend) *GetProjectTool {
	return &GetProjectTool{NewBase(backend,
		"get_project",
		"Get details of a project by UUID",
		uuidInput("Project"),
		resourceOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *GetProjectTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, resourcePath("projects", input.String("uuid")), nil)
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// CreateProjectTool creates a project
type CreateProjectTool struct{ Base }

// NewCreateProjectTool creates a new CreateProjectTool instance
func NewCreateProjectTool(backend Backend) *CreateProjectTool {
	return &CreateProjectTool{NewBase(backend,
		"create_project",
		"Create a new project",
		schema.Object(
			schema.NonEmptyString("name", "Project name"),
			schema.String("description", "Project description").Optional(),
		),
		createdOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *CreateProjectTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIPost(ctx, "/projects", input.Pick("name", "description"))
	if err != nil {
		return Result{}, err
	}
	return CreatedResult("project", resp), nil
}

// UpdateProjectTool renames or re-describes a project
type UpdateProjectTool struct{ Base }

// NewUpdateProjectTool creates a new UpdateProjectTool instance
func NewUpdateProjectTool(backend Backend) *UpdateProjectTool {
	return &UpdateProjectTool{NewBase(backend,
		"update_project",
		"Update the name or description of a project",
		schema.Object(
			schema.UUID("uuid", "Project UUID"),
			schema.NonEmptyString("name", "Project name").Optional(),
			schema.String("description", "Project description").Optional(),
		),
		resourceOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *UpdateProjectTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	if err := requireAnyOf(t.Name(), input, "name", "description"); err != nil {
		return Result{}, err
	}

	resp, err := t.APIPatch(ctx, resourcePath("projects", input.String("uuid")), input.Pick("name", "description"))
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// DeleteProjectTool removes a project
type DeleteProjectTool struct{ Base }

// NewDeleteProjectTool creates a new DeleteProjectTool instance
func NewDeleteProjectTool(backend Backend) *DeleteProjectTool {
	return &DeleteProjectTool{NewBase(backend,
		"delete_project",
		"Delete a project by UUID",
		uuidInput("Project"),
		messageOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *DeleteProjectTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIDelete(ctx, resourcePath("projects", input.String("uuid")), nil)
	if err != nil {
		return Result{}, err
	}
	return DeletedResult("project", resp), nil
}

// GetProjectEnvironmentTool fetches one environment of a project
type GetProjectEnvironmentTool struct{ Base }

// NewGetProjectEnvironmentTool creates a new GetProjectEnvironmentTool instance
func NewGetProjectEnvironmentTool(backend Backend) *GetProjectEnvironmentTool {
	return &GetProjectEnvironmentTool{NewBase(backend,
		"get_project_environment",
		"Get an environment of a project by name",
		schema.Object(
			schema.UUID("uuid", "Project UUID"),
			schema.NonEmptyString("environment_name", "Environment name, e.g. production"),
		),
		resourceOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *GetProjectEnvironmentTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	path := resourcePath("projects", input.String("uuid"), url.PathEscape(input.String("environment_name")))
	resp, err := t.APIGet(ctx, path, nil)
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}
