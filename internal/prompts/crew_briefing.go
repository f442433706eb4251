// Package prompts implements the MCP prompts: reusable instructions the
// host can offer the user for working with the guide corpus.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// CrewBriefingPrompt handles the crew-briefing MCP prompt.
// It instructs the AI to assemble a task briefing from the relevant
// crew manuals before giving any gameplay advice.
type CrewBriefingPrompt struct{}

// NewCrewBriefingPrompt creates a CrewBriefingPrompt.
func NewCrewBriefingPrompt() *CrewBriefingPrompt {
	return &CrewBriefingPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *CrewBriefingPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("crew-briefing",
		mcp.WithPromptDescription(
			"Brief a crew member on a task using the guide corpus. "+
				"Finds the relevant manuals and distills them into a short, "+
				"step-by-step briefing with citations back to the guides.",
		),
		mcp.WithArgument("task",
			mcp.ArgumentDescription("The task to brief on, e.g. 'set up a bee farm' or 'farm drowned for tridents'."),
		),
	)
}

// Handle processes the crew-briefing prompt request.
func (p *CrewBriefingPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	task := "the requested task"
	if args := req.Params.Arguments; args != nil {
		if t, ok := args["task"]; ok && t != "" {
			task = t
		}
	}

	return &mcp.GetPromptResult{
		Description: "Crew briefing from the guide corpus",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Brief me on: " + task + "\n\n" +
						"Work from the guide corpus, not from general knowledge:\n" +
						"1. Run `guide_search` for the task's key terms\n" +
						"2. Read the matching sections with `guide_get`\n" +
						"3. Write a briefing: prerequisites, numbered steps, and common mistakes\n" +
						"4. Cite each claim with the guide file and section it came from\n" +
						"5. If the guides do not cover the task, say so — do not invent steps",
				),
			},
		},
	}, nil
}
