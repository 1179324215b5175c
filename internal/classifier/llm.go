package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/airnex/internal/config"
	"github.com/smallbiznis/airnex/internal/factor"
	obsmetrics "github.com/smallbiznis/airnex/internal/observability/metrics"
	"github.com/smallbiznis/airnex/internal/providers/llm"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// maxEvidenceRunes bounds the invoice text sent to the model.
const maxEvidenceRunes = 8000

type Params struct {
	fx.In

	Completer llm.Completer
	Factors   *config.FactorTableHolder
	Log       *zap.Logger
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type llmClassifier struct {
	completer llm.Completer
	factors   *config.FactorTableHolder
	log       *zap.Logger
	metrics   *obsmetrics.Metrics
}

func New(p Params) Classifier {
	return &llmClassifier{
		completer: p.Completer,
		factors:   p.Factors,
		log:       p.Log.Named("classifier"),
		metrics:   p.Metrics,
	}
}

func (c *llmClassifier) Classify(ctx context.Context, evidence Evidence) (Classification, error) {
	text := strings.TrimSpace(evidence.Text)
	if text == "" {
		return Classification{}, ErrEmptyEvidence
	}
	if runes := []rune(text); len(runes) > maxEvidenceRunes {
		text = string(runes[:maxEvidenceRunes])
	}

	user := text
	if name := strings.TrimSpace(evidence.FileName); name != "" {
		user = fmt.Sprintf("Document: %s\n\n%s", name, text)
	}

	raw, err := c.completer.Complete(ctx, systemPrompt(c.factors.Get()), user)
	if err != nil {
		c.metrics.RecordAICall(ctx, "classifier", "error")
		return Classification{}, fmt.Errorf("classify evidence: %w", err)
	}

	cls, err := DecodeClassification(raw)
	if err != nil {
		c.metrics.RecordAICall(ctx, "classifier", "invalid")
		c.log.Warn("model returned an invalid classification", zap.Error(err))
		return Classification{}, err
	}
	c.metrics.RecordAICall(ctx, "classifier", "ok")
	return cls, nil
}

func systemPrompt(table *factor.Table) string {
	var b strings.Builder
	b.WriteString("You are a carbon accounting assistant. Read the invoice or activity evidence and ")
	b.WriteString("return ONE JSON object and nothing else, with exactly these fields:\n")
	b.WriteString(`{"activityType": string, "categoryKey": string, "scope": "SCOPE_1"|"SCOPE_2"|"SCOPE_3", `)
	b.WriteString(`"description": string, "quantity": number >= 0, "unit": string, `)
	b.WriteString(`"emissionFactor": number (kg CO2e per unit), "activityDate": "YYYY-MM-DD"}` + "\n")
	b.WriteString("Prefer one of the following categories (key | label | scope | unit | factor):\n")
	for _, c := range table.Categories() {
		fmt.Fprintf(&b, "- %s | %s | %s | %s | %g\n", c.Key, c.Label, c.Scope, c.Unit, c.Factor)
	}
	b.WriteString("When a category matches, use its key, scope, unit and factor.")
	return b.String()
}
