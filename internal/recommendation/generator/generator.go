package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	obsmetrics "github.com/smallbiznis/airnex/internal/observability/metrics"
	"github.com/smallbiznis/airnex/internal/providers/llm"
	"github.com/smallbiznis/airnex/internal/recommendation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// MaxDrafts caps how many actions a single reply may carry.
const MaxDrafts = 10

var ErrInvalidReply = errors.New("invalid_recommendation_reply")

type Params struct {
	fx.In

	Completer llm.Completer
	Log       *zap.Logger
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type llmGenerator struct {
	completer llm.Completer
	log       *zap.Logger
	metrics   *obsmetrics.Metrics
}

func New(p Params) domain.Generator {
	return &llmGenerator{
		completer: p.Completer,
		log:       p.Log.Named("recommendation.generator"),
		metrics:   p.Metrics,
	}
}

func (g *llmGenerator) Generate(ctx context.Context, input domain.GenerationInput) ([]domain.Draft, error) {
	raw, err := g.completer.Complete(ctx, systemPrompt, userPrompt(input))
	if err != nil {
		g.metrics.RecordAICall(ctx, "recommendation", "error")
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	drafts, err := DecodeDrafts(raw)
	if err != nil {
		g.metrics.RecordAICall(ctx, "recommendation", "invalid")
		return nil, err
	}
	g.metrics.RecordAICall(ctx, "recommendation", "ok")
	return drafts, nil
}

const systemPrompt = `You are a decarbonisation advisor for small and medium companies.
From the emission summary, propose concrete reduction actions.
Return ONE JSON object and nothing else:
{"recommendations": [{"title": string, "description": string,
"category": "ENERGY"|"TRANSPORT"|"WASTE"|"PROCUREMENT"|"PROCESS"|"OTHER",
"priority": "LOW"|"MEDIUM"|"HIGH"|"CRITICAL",
"estimatedImpact": number (kg CO2e avoided per year, >= 0),
"effort": "LOW"|"MEDIUM"|"HIGH", "reasoning": string}]}
Propose between 3 and 10 actions, the largest emission sources first.`

func userPrompt(input domain.GenerationInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total emissions over the last 12 months: %.1f kg CO2e\n", input.Total)
	fmt.Fprintf(&b, "Scope 1: %.1f kg\nScope 2: %.1f kg\nScope 3: %.1f kg\n",
		input.ByScope.Scope1, input.ByScope.Scope2, input.ByScope.Scope3)
	if len(input.ByCategory) > 0 {
		b.WriteString("By activity:\n")
		for _, c := range input.ByCategory {
			fmt.Fprintf(&b, "- %s: %.1f kg\n", c.Category, c.Emissions)
		}
	}
	return b.String()
}

type wireReply struct {
	Recommendations []wireDraft `json:"recommendations"`
}

type wireDraft struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Priority        string   `json:"priority"`
	EstimatedImpact *float64 `json:"estimatedImpact"`
	Effort          string   `json:"effort"`
	Reasoning       string   `json:"reasoning"`
}

// DecodeDrafts parses a model reply. One malformed item rejects the whole
// reply so a batch is never stored half-valid.
func DecodeDrafts(raw string) ([]domain.Draft, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(raw))))
	dec.DisallowUnknownFields()

	var reply wireReply
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing content", ErrInvalidReply)
	}
	if len(reply.Recommendations) == 0 {
		return nil, fmt.Errorf("%w: no recommendations", ErrInvalidReply)
	}
	if len(reply.Recommendations) > MaxDrafts {
		reply.Recommendations = reply.Recommendations[:MaxDrafts]
	}

	drafts := make([]domain.Draft, 0, len(reply.Recommendations))
	for i, item := range reply.Recommendations {
		draft, invalid := item.draft()
		if len(invalid) > 0 {
			return nil, fmt.Errorf("%w: item %d: %s", ErrInvalidReply, i, strings.Join(invalid, ", "))
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

func (w wireDraft) draft() (domain.Draft, []string) {
	d := domain.Draft{
		Title:       strings.TrimSpace(w.Title),
		Description: strings.TrimSpace(w.Description),
		Category:    domain.Category(strings.ToUpper(strings.TrimSpace(w.Category))),
		Priority:    domain.Priority(strings.ToUpper(strings.TrimSpace(w.Priority))),
		Effort:      domain.Effort(strings.ToUpper(strings.TrimSpace(w.Effort))),
		Reasoning:   strings.TrimSpace(w.Reasoning),
	}

	var invalid []string
	if d.Title == "" {
		invalid = append(invalid, "title")
	}
	if d.Description == "" {
		invalid = append(invalid, "description")
	}
	if !d.Category.Valid() {
		invalid = append(invalid, "category")
	}
	if !d.Priority.Valid() {
		invalid = append(invalid, "priority")
	}
	if w.EstimatedImpact == nil || math.IsNaN(*w.EstimatedImpact) || math.IsInf(*w.EstimatedImpact, 0) || *w.EstimatedImpact < 0 {
		invalid = append(invalid, "estimatedImpact")
	} else {
		d.EstimatedImpactKg = *w.EstimatedImpact
	}
	if !d.Effort.Valid() {
		invalid = append(invalid, "effort")
	}
	return d, invalid
}
