package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
)

var (
	ErrInvalidClassification = errors.New("invalid_classification")
	ErrEmptyEvidence         = errors.New("empty_evidence")
)

// Evidence is the raw material an activity is classified from.
type Evidence struct {
	Text     string
	FileName string
}

// Classification is a validated activity read off a piece of evidence.
type Classification struct {
	ActivityType   string               `json:"activityType"`
	CategoryKey    string               `json:"categoryKey,omitempty"`
	Scope          emissiondomain.Scope `json:"scope"`
	Description    string               `json:"description"`
	Quantity       float64              `json:"quantity"`
	Unit           string               `json:"unit"`
	EmissionFactor *float64             `json:"emissionFactor,omitempty"`
	ActivityDate   *time.Time           `json:"activityDate,omitempty"`
}

type Classifier interface {
	Classify(ctx context.Context, evidence Evidence) (Classification, error)
}

type wireClassification struct {
	ActivityType   string   `json:"activityType"`
	CategoryKey    string   `json:"categoryKey"`
	Scope          string   `json:"scope"`
	Description    string   `json:"description"`
	Quantity       *float64 `json:"quantity"`
	Unit           string   `json:"unit"`
	EmissionFactor *float64 `json:"emissionFactor"`
	ActivityDate   string   `json:"activityDate"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "02/01/2006"}

// DecodeClassification parses and validates a model reply. Any field the
// model omits or invents is rejected rather than defaulted.
func DecodeClassification(raw string) (Classification, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(raw))))
	dec.DisallowUnknownFields()

	var wire wireClassification
	if err := dec.Decode(&wire); err != nil {
		return Classification{}, fmt.Errorf("%w: %v", ErrInvalidClassification, err)
	}
	if dec.More() {
		return Classification{}, fmt.Errorf("%w: trailing content", ErrInvalidClassification)
	}

	var invalid []string
	out := Classification{
		ActivityType: strings.TrimSpace(wire.ActivityType),
		CategoryKey:  strings.ToLower(strings.TrimSpace(wire.CategoryKey)),
		Description:  strings.TrimSpace(wire.Description),
		Unit:         strings.TrimSpace(wire.Unit),
	}
	if out.ActivityType == "" && out.CategoryKey == "" {
		invalid = append(invalid, "activityType")
	}

	scope, err := emissiondomain.ParseScope(wire.Scope)
	if err != nil {
		invalid = append(invalid, "scope")
	}
	out.Scope = scope

	if wire.Quantity == nil || !isFinite(*wire.Quantity) || *wire.Quantity < 0 {
		invalid = append(invalid, "quantity")
	} else {
		out.Quantity = *wire.Quantity
	}
	if out.Unit == "" {
		invalid = append(invalid, "unit")
	}
	if wire.EmissionFactor != nil {
		if !isFinite(*wire.EmissionFactor) {
			invalid = append(invalid, "emissionFactor")
		} else {
			f := *wire.EmissionFactor
			out.EmissionFactor = &f
		}
	}
	if date := strings.TrimSpace(wire.ActivityDate); date != "" {
		parsed, ok := parseDate(date)
		if !ok {
			invalid = append(invalid, "activityDate")
		} else {
			out.ActivityDate = &parsed
		}
	}

	if len(invalid) > 0 {
		return Classification{}, fmt.Errorf("%w: %s", ErrInvalidClassification, strings.Join(invalid, ", "))
	}
	return out, nil
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
