package tools

import (
	"context"

	"mcp-deployment-service/pkg/logging"
	"mcp-deployment-service/pkg/schema"
)

// GetVersionTool reports the backend version. It doubles as a connectivity probe.
type GetVersionTool struct{ Base }

// NewGetVersionTool creates a new GetVersionTool instance
func NewGetVersionTool(backend Backend) *GetVersionTool {
	return &GetVersionTool{NewBase(backend,
		"get_version",
		"Get the version of the deployment backend",
		schema.Object(),
		schema.Text(),
	)}
}

// Execute runs the tool with validated arguments
func (t *GetVersionTool) Execute(ctx context.Context, _ schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, "/version", nil)
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// DefaultTools returns every deployment tool bound to backend, in catalog order
func DefaultTools(backend Backend) []Tool {
	return []Tool{
		NewGetVersionTool(backend),

		NewListServersTool(backend),
		NewGetServerTool(backend),
		NewCreateServerTool(backend),
		NewUpdateServerTool(backend),
		NewDeleteServerTool(backend),
		NewValidateServerTool(backend),
		NewGetServerResourcesTool(backend),
		NewGetServerDomainsTool(backend),

		NewListProjectsTool(backend),
		NewGetProjectTool(backend),
		NewCreateProjectTool(backend),
		NewUpdateProjectTool(backend),
		NewDeleteProjectTool(backend),
		NewGetProjectEnvironmentTool(backend),

		NewListTeamsTool(backend),
		NewGetTeamTool(backend),
		NewGetTeamMembersTool(backend),
		NewGetCurrentTeamTool(backend),
		NewGetCurrentTeamMembersTool(backend),

		NewListServicesTool(backend),
		NewGetServiceTool(backend),
		NewCreateServiceTool(backend),
		NewDeleteServiceTool(backend),
		NewStartServiceTool(backend),
		NewStopServiceTool(backend),
		NewRestartServiceTool(backend),

		NewListDeployKeysTool(backend),
		NewCreateDeployKeyTool(backend),
		NewDeleteDeployKeyTool(backend),

		NewListRegistriesTool(backend),
		NewGetRegistryTool(backend),
		NewCreateRegistryTool(backend),
		NewUpdateRegistryTool(backend),
		NewDeleteRegistryTool(backend),
		NewTestRegistryTool(backend),

		NewListDeploymentsTool(backend),
		NewGetDeploymentTool(backend),
		NewDeployTool(backend),

		NewListPrivateKeysTool(backend),
		NewGetPrivateKeyTool(backend),
		NewCreatePrivateKeyTool(backend),
		NewUpdatePrivateKeyTool(backend),
		NewDeletePrivateKeyTool(backend),
	}
}

// NewDefaultRegistry registers every deployment tool and seals the registry
func NewDefaultRegistry(backend Backend, logger *logging.StructuredLogger, opts ...Option) (*Registry, error) {
	registry := NewRegistry(logger, opts...)
	if err := registry.RegisterAll(DefaultTools(backend)...); err != nil {
		return nil, err
	}
	registry.Seal()
	return registry, nil
}
