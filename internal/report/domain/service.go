package domain

import (
	"context"
	"errors"
)

type GenerateRequest struct {
	Type string `json:"type"`
}

// Generated is a rendered document together with its stored snapshot.
type Generated struct {
	Report Report
	PDF    []byte
}

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (Generated, error)
	List(ctx context.Context) ([]Report, error)
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidType    = errors.New("invalid_report_type")
)
