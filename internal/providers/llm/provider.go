package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/smallbiznis/airnex/internal/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ErrUnavailable   = errors.New("llm_unavailable")
	ErrEmptyResponse = errors.New("llm_empty_response")
)

// Completer turns a system prompt and user content into a JSON-parseable reply.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userContent string) (string, error)
}

// ChatModel is the part of an eino chat model the provider calls.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Provider paces calls to a chat model. It never retries: a failed call is
// returned to the caller, which owns the retry policy.
type Provider struct {
	model   ChatModel
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewProvider(cm ChatModel, limiter *rate.Limiter, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{model: cm, limiter: limiter, log: log.Named("llm.provider")}
}

func (p *Provider) Complete(ctx context.Context, systemPrompt, userContent string) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("llm rate limiter: %w", err)
		}
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: userContent},
	}
	resp, err := p.model.Generate(ctx, messages)
	if err != nil {
		p.log.Warn("completion failed", zap.Error(err))
		return "", fmt.Errorf("llm completion: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}

	content := StripCodeFences(resp.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// Disabled is used when no API key is configured.
type Disabled struct{}

func (Disabled) Complete(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}

// StripCodeFences removes a surrounding markdown code block, if any.
func StripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```JSON")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// New builds the OpenAI-compatible completer from configuration.
func New(cfg config.Config, log *zap.Logger) (Completer, error) {
	if !cfg.LLM.Enabled() {
		log.Warn("LLM_API_KEY not set, classification and recommendations are disabled")
		return Disabled{}, nil
	}

	cm, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}

	var limiter *rate.Limiter
	if rpm := cfg.LLM.RequestsPerMinute; rpm > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
	}
	return NewProvider(cm, limiter, log), nil
}
