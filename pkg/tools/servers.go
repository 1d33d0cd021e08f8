package tools

import (
	"context"

	"mcp-deployment-service/pkg/schema"
)

func serverFields() []schema.Field {
	return []schema.Field{
		schema.String("description", "Server description").Optional(),
		schema.IPv4("ip", "IPv4 address the server is reachable at"),
		schema.Port("port", "SSH port").WithDefault(22),
		schema.NonEmptyString("user", "SSH user").WithDefault("root"),
		schema.UUID("private_key_uuid", "UUID of the private key used for SSH"),
		schema.Boolean("is_build_server", "Use the server only for builds").Optional(),
	}
}

// ListServersTool lists all servers
type ListServersTool struct{ Base }

// NewListServersTool creates a new ListServersTool instance
func NewListServersTool(backend Backend) *ListServersTool {
	return &ListServersTool{NewBase(backend,
		"list_servers",
		"List all servers",
		schema.Object(),
		resourceListOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *ListServersTool) Execute(ctx context.Context, _ schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, "/servers", nil)
	if err != nil {
		return Result{}, err
	}
	return ListResult(resp), nil
}

// GetServerTool fetches one server
type GetServerTool struct{ Base }

// NewGetServerTool creates a new GetServerTool instance
func NewGetServerTool(backend Backend) *GetServerTool {
	return &GetServerTool{NewBase(backend,
		"get_server",
		"Get details of a server by UUID",
		uuidInput("Server"),
		resourceOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *GetServerTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, resourcePath("servers", input.String("uuid")), nil)
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// CreateServerTool registers a new server
type CreateServerTool struct{ Base }

// NewCreateServerTool creates a new CreateServerTool instance
func NewCreateServerTool(backend Backend) *CreateServerTool {
	fields := append([]schema.Field{
		schema.NonEmptyString("name", "Server name"),
	}, serverFields()...)
	fields = append(fields,
		schema.Boolean("instant_validate", "Validate the server right after creation").Optional(),
	)

	return &CreateServerTool{NewBase(backend,
		"create_server",
		"Create a new server reachable over SSH",
		schema.Object(fields...),
		createdOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *CreateServerTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIPost(ctx, "/servers", input.Pick(
		"name", "description", "ip", "port", "user",
		"private_key_uuid", "is_build_server", "instant_validate",
	))
	if err != nil {
		return Result{}, err
	}
	return CreatedResult("server", resp), nil
}

// UpdateServerTool changes server settings
type UpdateServerTool struct{ Base }

// NewUpdateServerTool creates a new UpdateServerTool instance
func NewUpdateServerTool(backend Backend) *UpdateServerTool {
	fields := []schema.Field{
		schema.UUID("uuid", "Server UUID"),
		schema.NonEmptyString("name", "Server name").Optional(),
	}
	for _, f := range serverFields() {
		f.Default = nil
		fields = append(fields, f.Optional())
	}

	return &UpdateServerTool{NewBase(backend,
		"update_server",
		"Update the settings of a server",
		schema.Object(fields...),
		resourceOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *UpdateServerTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	if err := requireAnyOf(t.Name(), input,
		"name", "description", "ip", "port", "user", "private_key_uuid", "is_build_server",
	); err != nil {
		return Result{}, err
	}

	resp, err := t.APIPatch(ctx, resourcePath("servers", input.String("uuid")), input.Except("uuid"))
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// DeleteServerTool removes a server
type DeleteServerTool struct{ Base }

// NewDeleteServerTool creates a new DeleteServerTool instance
func NewDeleteServerTool(backend Backend) *DeleteServerTool {
	return &DeleteServerTool{NewBase(backend,
		"delete_server",
		"Delete a server by UUID",
		uuidInput("Server"),
		messageOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *DeleteServerTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIDelete(ctx, resourcePath("servers", input.String("uuid")), nil)
	if err != nil {
		return Result{}, err
	}
	return DeletedResult("server", resp), nil
}

// ValidateServerTool checks SSH connectivity of a server
type ValidateServerTool struct{ Base }

// NewValidateServerTool creates a new ValidateServerTool instance
func NewValidateServerTool(backend Backend) *ValidateServerTool {
	return &ValidateServerTool{NewBase(backend,
		"validate_server",
		"Start validation of a server's SSH connection and prerequisites",
		uuidInput("Server"),
		messageOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *ValidateServerTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, resourcePath("servers", input.String("uuid"), "validate"), nil)
	if err != nil {
		return Result{}, err
	}
	return ActionResult("Server validation started", resp), nil
}

// GetServerResourcesTool lists what runs on a server
type GetServerResourcesTool struct{ Base }

// NewGetServerResourcesTool creates a new GetServerResourcesTool instance
func NewGetServerResourcesTool(backend Backend) *GetServerResourcesTool {
	return &GetServerResourcesTool{NewBase(backend,
		"get_server_resources",
		"List the applications, databases and services running on a server",
		uuidInput("Server"),
		resourceListOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *GetServerResourcesTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, resourcePath("servers", input.String("uuid"), "resources"), nil)
	if err != nil {
		return Result{}, err
	}
	return ListResult(resp), nil
}

// GetServerDomainsTool lists domains routed to a server
type GetServerDomainsTool struct{ Base }

// NewGetServerDomainsTool creates a new GetServerDomainsTool instance
func NewGetServerDomainsTool(backend Backend) *GetServerDomainsTool {
	return &GetServerDomainsTool{NewBase(backend,
		"get_server_domains",
		"List the domains configured on a server",
		uuidInput("Server"),
		schema.Array(schema.Any()),
	)}
}

// Execute runs the tool with validated arguments
func (t *GetServerDomainsTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, resourcePath("servers", input.String("uuid"), "domains"), nil)
	if err != nil {
		return Result{}, err
	}
	return ListResult(resp), nil
}
