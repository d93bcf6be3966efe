package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// wrapResponse adds the guidance and metadata envelope to a tool payload.
func (s *Server) wrapResponse(data any, guidance []string, extra map[string]any) map[string]any {
	meta := map[string]any{
		"generated_at": s.opts.Now().UTC(),
		"server":       "sprintcap " + s.opts.Version,
	}
	for k, v := range extra {
		if k == "charts" {
			continue
		}
		meta[k] = v
	}

	res := map[string]any{
		"data":      data,
		"_metadata": meta,
	}
	if len(guidance) > 0 {
		res["_guidance"] = guidance
	}
	return res
}

// result encodes the envelope as text content. Mermaid charts travel as
// separate text blocks so clients can render them directly.
func (s *Server) result(data any, guidance []string, extra map[string]any) (*mcpsdk.CallToolResult, any, error) {
	body, err := json.MarshalIndent(s.wrapResponse(data, guidance, extra), "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode response: %w", err)
	}

	content := []mcpsdk.Content{&mcpsdk.TextContent{Text: string(body)}}
	if charts, ok := extra["charts"].([]string); ok {
		for _, c := range charts {
			if strings.TrimSpace(c) != "" {
				content = append(content, &mcpsdk.TextContent{Text: c})
			}
		}
	}
	return &mcpsdk.CallToolResult{Content: content}, nil, nil
}
