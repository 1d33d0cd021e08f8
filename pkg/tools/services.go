package tools

import (
	"context"
	"net/url"
	"strconv"

	"mcp-deployment-service/pkg/schema"
)

// ServiceTypes are the one-click service templates the backend can create
var ServiceTypes = []string{
	"activepieces", "appsmith", "appwrite", "authentik", "code-server",
	"directus", "docker-registry", "dokuwiki", "duplicati", "fider",
	"filebrowser", "ghost", "gitea", "glitchtip", "grafana", "jellyfin",
	"listmonk", "metabase", "minio", "n8n", "nextcloud", "nocodb",
	"plausible", "pocketbase", "posthog", "supabase", "umami",
	"uptime-kuma", "vaultwarden", "wordpress-with-mariadb", "wordpress-with-mysql",
}

// ListServicesTool lists all services
type ListServicesTool struct{ Base }

// NewListServicesTool creates a new ListServicesTool instance
func NewListServicesTool(backend Backend) *ListServicesTool {
	return &ListServicesTool{NewBase(backend,
		"list_services",
		"List all services",
		schema.Object(),
		resourceListOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *ListServicesTool) Execute(ctx context.Context, _ schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, "/services", nil)
	if err != nil {
		return Result{}, err
	}
	return ListResult(resp), nil
}

// GetServiceTool fetches one service
type GetServiceTool struct{ Base }

// NewGetServiceTool creates a new GetServiceTool instance
func NewGetServiceTool(backend Backend) *GetServiceTool {
	return &GetServiceTool{NewBase(backend,
		"get_service",
		"Get details of a service by UUID",
		uuidInput("Service"),
		resourceOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *GetServiceTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, resourcePath("services", input.String("uuid")), nil)
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// CreateServiceTool creates a service from a one-click template
type CreateServiceTool struct{ Base }

// NewCreateServiceTool creates a new CreateServiceTool instance
func NewCreateServiceTool(backend Backend) *CreateServiceTool {
	return &CreateServiceTool{NewBase(backend,
		"create_service",
		"Create a one-click service in a project environment",
		schema.Object(
			schema.Enum("type", "Service template", ServiceTypes...),
			schema.NonEmptyString("name", "Service name").Optional(),
			schema.String("description", "Service description").Optional(),
			schema.UUID("project_uuid", "Project the service belongs to"),
			schema.NonEmptyString("environment_name", "Environment within the project"),
			schema.UUID("server_uuid", "Server to deploy on"),
			schema.UUID("destination_uuid", "Docker network destination on the server").Optional(),
			schema.Boolean("instant_deploy", "Deploy immediately after creation").WithDefault(false),
		),
		createdOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *CreateServiceTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIPost(ctx, "/services", input.Pick(
		"type", "name", "description", "project_uuid", "environment_name",
		"server_uuid", "destination_uuid", "instant_deploy",
	))
	if err != nil {
		return Result{}, err
	}
	return CreatedResult("service", resp), nil
}

// DeleteServiceTool removes a service and optionally its data
type DeleteServiceTool struct{ Base }

var deleteServiceOptions = []string{
	"delete_configurations", "delete_volumes", "docker_cleanup", "delete_connected_networks",
}

// NewDeleteServiceTool creates a new DeleteServiceTool instance
func NewDeleteServiceTool(backend Backend) *DeleteServiceTool {
	return &DeleteServiceTool{NewBase(backend,
		"delete_service",
		"Delete a service by UUID",
		schema.Object(
			schema.UUID("uuid", "Service UUID"),
			schema.Boolean("delete_configurations", "Remove configuration files").WithDefault(true),
			schema.Boolean("delete_volumes", "Remove volumes").WithDefault(true),
			schema.Boolean("docker_cleanup", "Run docker cleanup afterwards").WithDefault(true),
			schema.Boolean("delete_connected_networks", "Remove networks attached to the service").WithDefault(true),
		),
		messageOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *DeleteServiceTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	query := url.Values{}
	for _, option := range deleteServiceOptions {
		query.Set(option, strconv.FormatBool(input.Bool(option)))
	}

	resp, err := t.APIDelete(ctx, resourcePath("services", input.String("uuid")), query)
	if err != nil {
		return Result{}, err
	}
	return DeletedResult("service", resp), nil
}

// ServiceActionTool starts, stops or restarts a service
type ServiceActionTool struct {
	Base
	action  string
	message string
}

func newServiceActionTool(backend Backend, action, description, message string) *ServiceActionTool {
	return &ServiceActionTool{
		Base: NewBase(backend,
			action+"_service",
			description,
			uuidInput("Service"),
			messageOutput,
		),
		action:  action,
		message: message,
	}
}

// NewStartServiceTool creates the start_service tool
func NewStartServiceTool(backend Backend) *ServiceActionTool {
	return newServiceActionTool(backend, "start", "Start a service", "Service start requested")
}

// NewStopServiceTool creates the stop_service tool
func NewStopServiceTool(backend Backend) *ServiceActionTool {
	return newServiceActionTool(backend, "stop", "Stop a service", "Service stop requested")
}

// NewRestartServiceTool creates the restart_service tool
func NewRestartServiceTool(backend Backend) *ServiceActionTool {
	return newServiceActionTool(backend, "restart", "Restart a service", "Service restart requested")
}

// Execute runs the tool with validated arguments
func (t *ServiceActionTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, resourcePath("services", input.String("uuid"), t.action), nil)
	if err != nil {
		return Result{}, err
	}
	return ActionResult(t.message, resp), nil
}
