package tools

import (
	"context"

	"mcp-deployment-service/pkg/schema"
)

// ListDeployKeysTool lists all deploy keys
type ListDeployKeysTool struct{ Base }

// NewListDeployKeysTool creates a new ListDeployKeysTool instance
func NewListDeployKeysTool(backend Backend) *ListDeployKeysTool {
	return &ListDeployKeysTool{NewBase(backend,
		"list_deploy_keys",
		"List all deploy keys",
		schema.Object(),
		schema.Array(schema.Any()),
	)}
}

// Execute runs the tool with validated arguments
func (t *ListDeployKeysTool) Execute(ctx context.Context, _ schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, "/deploy-keys", nil)
	if err != nil {
		return Result{}, err
	}
	return ListResult(resp), nil
}

// CreateDeployKeyTool creates a deploy key. Without a private key the
// backend generates one.
type CreateDeployKeyTool struct{ Base }

// NewCreateDeployKeyTool creates a new CreateDeployKeyTool instance
func NewCreateDeployKeyTool(backend Backend) *CreateDeployKeyTool {
	return &CreateDeployKeyTool{NewBase(backend,
		"create_deploy_key",
		"Create a deploy key for repository access",
		schema.Object(
			schema.NonEmptyString("name", "Deploy key name"),
			schema.String("description", "Deploy key description").Optional(),
			schema.NonEmptyString("private_key", "PEM encoded private key; generated when omitted").Optional(),
		),
		createdOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *CreateDeployKeyTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIPost(ctx, "/deploy-keys", input.Pick("name", "description", "private_key"))
	if err != nil {
		return Result{}, err
	}
	return CreatedResult("deploy key", resp), nil
}

// DeleteDeployKeyTool removes a deploy key
type DeleteDeployKeyTool struct{ Base }

// NewDeleteDeployKeyTool creates a new DeleteDeployKeyTool instance
func NewDeleteDeployKeyTool(backend Backend) *DeleteDeployKeyTool {
	return &DeleteDeployKeyTool{NewBase(backend,
		"delete_deploy_key",
		"Delete a deploy key by ID",
		schema.Object(schema.NonEmptyString("key_id", "Deploy key ID")),
		messageOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *DeleteDeployKeyTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIDelete(ctx, resourcePath("deploy-keys", input.String("key_id")), nil)
	if err != nil {
		return Result{}, err
	}
	return DeletedResult("deploy key", resp), nil
}
