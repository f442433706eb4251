package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// AuditReviewPrompt handles the audit-review MCP prompt.
// It instructs the AI to run the corpus audit and walk the user through
// the findings, worst first.
type AuditReviewPrompt struct{}

// NewAuditReviewPrompt creates an AuditReviewPrompt.
func NewAuditReviewPrompt() *AuditReviewPrompt {
	return &AuditReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *AuditReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("audit-review",
		mcp.WithPromptDescription(
			"Audit the guide corpus and review the findings together. "+
				"Shows broken catalog entries, dead anchors, unclosed fences, "+
				"leftover placeholders, and tables whose totals don't add up.",
		),
	)
}

// Handle processes the audit-review prompt request.
func (p *AuditReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Guide corpus audit review",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `guide_audit` on the corpus.\n\n" +
						"Then:\n" +
						"1. Group the findings by severity, errors first\n" +
						"2. For each error, show me the offending line and explain what is broken\n" +
						"3. For table-arithmetic warnings, show both values — the guide's total and the computed sum — and do NOT guess which one is right\n" +
						"4. Propose a fix for each finding, but wait for my approval before editing any guide\n" +
						"5. Finish with the one-line summary and whether the corpus is shippable",
				),
			},
		},
	}, nil
}
