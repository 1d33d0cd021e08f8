package tools

import (
	"context"

	"mcp-deployment-service/pkg/schema"
)

// privateKeyOutput covers list and get responses. Key material is not part of it.
var privateKeyOutput = schema.OpenObject(
	schema.String("uuid", "Private key UUID").Optional(),
	schema.String("name", "Private key name").Optional(),
	schema.String("fingerprint", "Public key fingerprint").Optional(),
)

// ListPrivateKeysTool lists stored private keys
type ListPrivateKeysTool struct{ Base }

// NewListPrivateKeysTool creates a new ListPrivateKeysTool instance
func NewListPrivateKeysTool(backend Backend) *ListPrivateKeysTool {
	return &ListPrivateKeysTool{NewBase(backend,
		"list_private_keys",
		"List stored SSH private keys",
		schema.Object(),
		schema.Array(privateKeyOutput),
	)}
}

// Execute runs the tool with validated arguments
func (t *ListPrivateKeysTool) Execute(ctx context.Context, _ schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, "/private-keys", nil)
	if err != nil {
		return Result{}, err
	}
	return ListResult(resp), nil
}

// GetPrivateKeyTool fetches one private key
type GetPrivateKeyTool struct{ Base }

// NewGetPrivateKeyTool creates a new GetPrivateKeyTool instance
func NewGetPrivateKeyTool(backend Backend) *GetPrivateKeyTool {
	return &GetPrivateKeyTool{NewBase(backend,
		"get_private_key",
		"Get details of a stored SSH private key",
		uuidInput("Private key"),
		privateKeyOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *GetPrivateKeyTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, resourcePath("private-keys", input.String("uuid")), nil)
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// CreatePrivateKeyTool stores a private key
type CreatePrivateKeyTool struct{ Base }

// NewCreatePrivateKeyTool creates a new CreatePrivateKeyTool instance
func NewCreatePrivateKeyTool(backend Backend) *CreatePrivateKeyTool {
	return &CreatePrivateKeyTool{NewBase(backend,
		"create_private_key",
		"Store an SSH private key for server access",
		schema.Object(
			schema.NonEmptyString("name", "Private key name"),
			schema.String("description", "Private key description").Optional(),
			schema.NonEmptyString("private_key", "PEM encoded private key"),
		),
		createdOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *CreatePrivateKeyTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIPost(ctx, "/private-keys", input.Pick("name", "description", "private_key"))
	if err != nil {
		return Result{}, err
	}
	return CreatedResult("private key", resp), nil
}

// UpdatePrivateKeyTool changes a stored private key
type UpdatePrivateKeyTool struct{ Base }

// NewUpdatePrivateKeyTool creates a new UpdatePrivateKeyTool instance
func NewUpdatePrivateKeyTool(backend Backend) *UpdatePrivateKeyTool {
	return &UpdatePrivateKeyTool{NewBase(backend,
		"update_private_key",
		"Update the name, description or key material of a stored private key",
		schema.Object(
			schema.UUID("uuid", "Private key UUID"),
			schema.NonEmptyString("name", "Private key name").Optional(),
			schema.String("description", "Private key description").Optional(),
			schema.NonEmptyString("private_key", "PEM encoded private key").Optional(),
		),
		privateKeyOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *UpdatePrivateKeyTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	if err := requireAnyOf(t.Name(), input, "name", "description", "private_key"); err != nil {
		return Result{}, err
	}

	resp, err := t.APIPatch(ctx, resourcePath("private-keys", input.String("uuid")), input.Except("uuid"))
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// DeletePrivateKeyTool removes a stored private key
type DeletePrivateKeyTool struct{ Base }

// NewDeletePrivateKeyTool creates a new DeletePrivateKeyTool instance
func NewDeletePrivateKeyTool(backend Backend) *DeletePrivateKeyTool {
	return &DeletePrivateKeyTool{NewBase(backend,
		"delete_private_key",
		"Delete a stored SSH private key",
		uuidInput("Private key"),
		messageOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *DeletePrivateKeyTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIDelete(ctx, resourcePath("private-keys", input.String("uuid")), nil)
	if err != nil {
		return Result{}, err
	}
	return DeletedResult("private key", resp), nil
}
