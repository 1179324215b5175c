package domain

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

type CreateRequest struct {
	ActivityType   string     `json:"activityType"`
	CategoryKey    string     `json:"categoryKey"`
	Scope          string     `json:"scope"`
	Description    string     `json:"description"`
	Quantity       *float64   `json:"quantity"`
	Unit           string     `json:"unit"`
	EmissionFactor *float64   `json:"emissionFactor"`
	ActivityDate   *time.Time `json:"activityDate"`
	ProjectID      string     `json:"projectId"`
	SourceFileID   string     `json:"sourceFileId"`
}

type ListRequest struct {
	Scope string
	Limit int
	From  *time.Time
	To    *time.Time
}

// ExtractRequest carries the evidence handed to the activity classifier.
type ExtractRequest struct {
	Text         string `json:"text"`
	FileName     string `json:"fileName"`
	SourceFileID string `json:"sourceFileId"`
	ProjectID    string `json:"projectId"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (EmissionRecord, error)
	List(ctx context.Context, req ListRequest) ([]EmissionRecord, error)
	Extract(ctx context.Context, req ExtractRequest) (EmissionRecord, error)
}

var (
	ErrInvalidCompany  = errors.New("invalid_company")
	ErrInvalidScope    = errors.New("invalid_scope")
	ErrInvalidLimit    = errors.New("invalid_limit")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidEvidence = errors.New("invalid_evidence")
	ErrInvalidProject  = errors.New("invalid_project")
)
