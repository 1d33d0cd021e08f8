package tools

import (
	"context"
	"strconv"

	"mcp-deployment-service/pkg/schema"
)

var (
	teamOutput = schema.OpenObject(
		schema.Integer("id", "Team ID").Optional(),
		schema.String("name", "Team name").Optional(),
	)

	memberListOutput = schema.Array(schema.OpenObject(
		schema.Integer("id", "User ID").Optional(),
		schema.String("name", "User name").Optional(),
		schema.String("email", "User email").Optional(),
	))
)

func teamIDInput() schema.Schema {
	return schema.Object(schema.Integer("team_id", "Team ID").Between(0, 1<<31-1))
}

func teamPath(input schema.Values, suffix ...string) string {
	return resourcePath("teams", strconv.Itoa(input.Int("team_id")), suffix...)
}

// ListTeamsTool lists all teams
type ListTeamsTool struct{ Base }

// NewListTeamsTool creates a new ListTeamsTool instance
func NewListTeamsTool(backend Backend) *ListTeamsTool {
	return &ListTeamsTool{NewBase(backend,
		"list_teams",
		"List all teams the token can see",
		schema.Object(),
		schema.Array(teamOutput),
	)}
}

// Execute runs the tool with validated arguments
func (t *ListTeamsTool) Execute(ctx context.Context, _ schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, "/teams", nil)
	if err != nil {
		return Result{}, err
	}
	return ListResult(resp), nil
}

// GetTeamTool fetches one team
type GetTeamTool struct{ Base }

// NewGetTeamTool creates a new GetTeamTool instance
func NewGetTeamTool(backend Backend) *GetTeamTool {
	return &GetTeamTool{NewBase(backend,
		"get_team",
		"Get details of a team by ID",
		teamIDInput(),
		teamOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *GetTeamTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, teamPath(input), nil)
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// GetTeamMembersTool lists members of a team
type GetTeamMembersTool struct{ Base }

// NewGetTeamMembersTool creates a new GetTeamMembersTool instance
func NewGetTeamMembersTool(backend Backend) *GetTeamMembersTool {
	return &GetTeamMembersTool{NewBase(backend,
		"get_team_members",
		"List the members of a team",
		teamIDInput(),
		memberListOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *GetTeamMembersTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, teamPath(input, "members"), nil)
	if err != nil {
		return Result{}, err
	}
	return ListResult(resp), nil
}

// GetCurrentTeamTool fetches the team owning the API token
type GetCurrentTeamTool struct{ Base }

// NewGetCurrentTeamTool creates a new GetCurrentTeamTool instance
func NewGetCurrentTeamTool(backend Backend) *GetCurrentTeamTool {
	return &GetCurrentTeamTool{NewBase(backend,
		"get_current_team",
		"Get the team the API token belongs to",
		schema.Object(),
		teamOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *GetCurrentTeamTool) Execute(ctx context.Context, _ schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, "/teams/current", nil)
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// GetCurrentTeamMembersTool lists members of the token's team
type GetCurrentTeamMembersTool struct{ Base }

// NewGetCurrentTeamMembersTool creates a new GetCurrentTeamMembersTool instance
func NewGetCurrentTeamMembersTool(backend Backend) *GetCurrentTeamMembersTool {
	return &GetCurrentTeamMembersTool{NewBase(backend,
		"get_current_team_members",
		"List the members of the team the API token belongs to",
		schema.Object(),
		memberListOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *GetCurrentTeamMembersTool) Execute(ctx context.Context, _ schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, "/teams/current/members", nil)
	if err != nil {
		return Result{}, err
	}
	return ListResult(resp), nil
}
