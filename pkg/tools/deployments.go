package tools

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"mcp-deployment-service/pkg/schema"
)

var deploymentOutput = schema.OpenObject(
	schema.String("deployment_uuid", "Deployment UUID").Optional(),
	schema.String("status", "Deployment status").Optional(),
)

// ListDeploymentsTool lists running deployments
type ListDeploymentsTool struct{ Base }

// NewListDeploymentsTool creates a new ListDeploymentsTool instance
func NewListDeploymentsTool(backend Backend) *ListDeploymentsTool {
	return &ListDeploymentsTool{NewBase(backend,
		"list_deployments",
		"List deployments currently queued or in progress",
		schema.Object(),
		schema.Array(deploymentOutput),
	)}
}

// Execute runs the tool with validated arguments
func (t *ListDeploymentsTool) Execute(ctx context.Context, _ schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, "/deployments", nil)
	if err != nil {
		return Result{}, err
	}
	return ListResult(resp), nil
}

// GetDeploymentTool fetches one deployment including its logs
type GetDeploymentTool struct{ Base }

// NewGetDeploymentTool creates a new GetDeploymentTool instance
func NewGetDeploymentTool(backend Backend) *GetDeploymentTool {
	return &GetDeploymentTool{NewBase(backend,
		"get_deployment",
		"Get the status and logs of a deployment",
		uuidInput("Deployment"),
		deploymentOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *GetDeploymentTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, resourcePath("deployments", input.String("uuid")), nil)
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// deployTargets accepts a list or a comma separated string
func deployTargets(name, description string) schema.Field {
	f := schema.StringList(name, description+"; a comma separated string is also accepted").Optional()
	f.NonEmpty = true
	return f
}

// DeployTool triggers deployments by resource UUID or by tag
type DeployTool struct{ Base }

// NewDeployTool creates a new DeployTool instance
func NewDeployTool(backend Backend) *DeployTool {
	return &DeployTool{NewBase(backend,
		"deploy",
		"Deploy resources by UUID or by tag; one of the two is required",
		schema.Object(
			deployTargets("uuid", "Resource UUIDs to deploy"),
			deployTargets("tag", "Tag names to deploy"),
			schema.Boolean("force", "Rebuild without cache").WithDefault(false),
		),
		schema.OpenObject(
			schema.Field{
				Name:        "deployments",
				Type:        schema.TypeArray,
				Description: "Queued deployments",
			}.Optional(),
		),
	)}
}

// Execute runs the tool with validated arguments
func (t *DeployTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	if err := requireAnyOf(t.Name(), input, "uuid", "tag"); err != nil {
		return Result{}, err
	}

	query := url.Values{}
	for _, name := range []string{"uuid", "tag"} {
		if input.Has(name) {
			query.Set(name, strings.Join(input.Strings(name), ","))
		}
	}
	query.Set("force", strconv.FormatBool(input.Bool("force")))

	resp, err := t.APIGet(ctx, "/deploy", query)
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}
