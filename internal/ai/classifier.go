package ai

import (
	"context"
	"strings"

	"github.com/tgo/finsight/internal/model"
)

const classifyPrompt = `You are a document classifier for financial documents.
Classify the document into ONE of these types:
- INVOICE
- BANK_STATEMENT
- PROFIT_LOSS
- BALANCE_SHEET
- TAX_DOCUMENT
- FINANCIAL_CONTRACT
- UNKNOWN

Return ONLY the type name, nothing else.`

// classifyTextLimit bounds how much document text the classifier sees.
const classifyTextLimit = 4000

// Classifier assigns a document type from the fixed vocabulary.
type Classifier struct {
	chat *ChatClient
}

func NewClassifier(chat *ChatClient) *Classifier {
	return &Classifier{chat: chat}
}

func (c *Classifier) Classify(ctx context.Context, text string) (model.DocumentType, error) {
	response, err := c.chat.Complete(ctx, classifyPrompt, "Classify this financial document:\n\n"+truncate(text, classifyTextLimit), 0)
	if err != nil {
		return model.DocumentTypeUnknown, err
	}

	return model.ParseDocumentType(strings.ToUpper(strings.TrimSpace(response))), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
