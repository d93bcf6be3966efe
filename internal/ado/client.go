package ado

import (
	"context"
	"errors"
	"time"

	"sprintcap/internal/capacity"
)

var (
	ErrTeamNotFound = errors.New("team not found")
	ErrUnauthorized = errors.New("azure devops authentication failed")
	ErrNotFound     = errors.New("azure devops resource not found")
)

// Team is an Azure DevOps team inside a project.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Project     string `json:"project"`
	ProjectURL  string `json:"projectUrl"` // <org>/<project>, used for web links
}

// Member is a team member identity. Groups are never returned as members.
type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Client is the interface for reading planning data from Azure DevOps.
type Client interface {
	Teams(ctx context.Context) ([]Team, error)
	ResolveTeam(ctx context.Context, nameOrID string) (Team, error)
	WorkingDays(ctx context.Context, team Team) (capacity.WorkingDayPattern, error)
	Iterations(ctx context.Context, team Team) ([]capacity.Iteration, error)
	Members(ctx context.Context, team Team) ([]Member, error)
	Capacities(ctx context.Context, team Team, iterationID string) ([]capacity.MemberCapacityEntry, error)
	TeamDaysOff(ctx context.Context, team Team, iterationID string) ([]capacity.DateRange, error)
	WorkItems(ctx context.Context, team Team, iterationID string) ([]capacity.WorkItemRecord, error)
}

// Config holds the connection settings for Azure DevOps.
type Config struct {
	OrgURL     string // e.g. https://dev.azure.com/contoso
	Project    string
	APIVersion string

	// Either a personal access token (basic auth) or an OAuth bearer token.
	PAT   string
	Token string

	// Work item fields read for effort aggregation.
	EffortField   string
	AssigneeField string

	RequestDelay time.Duration
	Timeout      time.Duration
}

const (
	DefaultAPIVersion    = "7.0"
	DefaultEffortField   = "Microsoft.VSTS.Scheduling.StoryPoints"
	DefaultAssigneeField = "System.AssignedTo"
)

// NewClient creates a new Azure DevOps client based on the provided configuration.
func NewClient(cfg Config) Client {
	return NewRESTClient(cfg)
}
