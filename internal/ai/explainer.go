package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/tgo/finsight/internal/risk"
)

const explainPrompt = `You are a financial auditor explaining risk flags to users.
Provide clear, professional explanations of why this risk was flagged.
Be specific and reference the evidence. Keep it concise (2-3 sentences).`

// contextTextLimit bounds the extracted-data context in an explanation prompt.
const contextTextLimit = 500

// RiskExplainer phrases human-readable explanations for rule-generated
// risk candidates.
type RiskExplainer struct {
	chat *ChatClient
}

func NewRiskExplainer(chat *ChatClient) *RiskExplainer {
	return &RiskExplainer{chat: chat}
}

func (r *RiskExplainer) Explain(ctx context.Context, candidate risk.Candidate, docCtx risk.DocumentContext) (string, error) {
	user := fmt.Sprintf(`Explain this financial risk flag:

Risk Type: %s
Risk Level: %s
Description: %s
Evidence: %v

Document Type: %s
Context: %s

Provide a clear explanation for non-technical users.`,
		candidate.RiskType,
		candidate.RiskLevel,
		candidate.Description,
		candidate.Evidence,
		docCtx.DocumentType,
		truncate(fmt.Sprintf("%v", docCtx.ExtractedData), contextTextLimit),
	)

	response, err := r.chat.Complete(ctx, explainPrompt, user, 0.3)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}
