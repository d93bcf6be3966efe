package mcp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type listTeamsInput struct{}

type iterationsInput struct {
	Team      string `json:"team" jsonschema:"Team name or id (GUID)"`
	StartDate string `json:"start_date" jsonschema:"First day of the window (YYYY-MM-DD). Iterations starting on or after this day are included."`
	EndDate   string `json:"end_date" jsonschema:"Last day of the window (YYYY-MM-DD). Must be after start_date."`
}

type reportInput struct {
	Team          string `json:"team" jsonschema:"Team name or id (GUID)"`
	StartDate     string `json:"start_date" jsonschema:"First day of the window (YYYY-MM-DD)."`
	EndDate       string `json:"end_date" jsonschema:"Last day of the window (YYYY-MM-DD). Must be after start_date."`
	IncludeCharts bool   `json:"include_charts,omitempty" jsonschema:"If true, adds Mermaid charts of capacity versus effort (only when charts are enabled on the server)."`
}

// inputSchema infers the schema of T and marks the date fields.
func inputSchema[T any]() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to infer input schema: %w", err)
	}
	for _, name := range []string{"start_date", "end_date"} {
		if p, ok := schema.Properties[name]; ok {
			p.Format = "date"
		}
	}
	return schema, nil
}

func (s *Server) registerTools(server *mcpsdk.Server) error {
	teamsSchema, err := inputSchema[listTeamsInput]()
	if err != nil {
		return err
	}
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_teams",
		Description: "List the Azure DevOps teams of the configured project. Guidance: use the returned team name or id with 'list_iterations' or 'capacity_report'.",
		InputSchema: teamsSchema,
	}, s.handleListTeams)

	iterSchema, err := inputSchema[iterationsInput]()
	if err != nil {
		return err
	}
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_iterations",
		Description: "List the scheduled iterations (sprints) of a team whose start date falls within the window, with their dates and taskboard links.",
		InputSchema: iterSchema,
	}, s.handleListIterations)

	reportSchema, err := inputSchema[reportInput]()
	if err != nil {
		return err
	}
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: "capacity_report",
		Description: "Compare declared capacity with assigned effort for every team member and iteration in the window.\n\n" +
			"Capacity = working days (team weekdays minus personal and team days off) x declared capacity per day. Effort = sum of the effort field of work items assigned to the member.\n" +
			"A null capacity means the member declared nothing; a null effort means no estimated work is assigned. DO NOT treat null as zero when summarizing.\n" +
			"Utilization buckets: low (< 60%), medium (60% to 100%), high (>= 100%).",
		InputSchema: reportSchema,
	}, s.handleCapacityReport)

	return nil
}
