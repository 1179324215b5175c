package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/smallbiznis/airnex/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type fakeChatModel struct {
	reply    *schema.Message
	err      error
	calls    int
	received []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.calls++
	f.received = input
	return f.reply, f.err
}

func TestCompleteStripsFences(t *testing.T) {
	cm := &fakeChatModel{reply: &schema.Message{Role: schema.Assistant, Content: "```json\n{\"a\":1}\n```"}}
	p := NewProvider(cm, nil, zap.NewNop())

	out, err := p.Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)

	require.Len(t, cm.received, 2)
	assert.Equal(t, schema.System, cm.received[0].Role)
	assert.Equal(t, "system", cm.received[0].Content)
	assert.Equal(t, schema.User, cm.received[1].Role)
}

func TestCompleteDoesNotRetry(t *testing.T) {
	cm := &fakeChatModel{err: errors.New("429 too many requests")}
	p := NewProvider(cm, nil, zap.NewNop())

	_, err := p.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, 1, cm.calls)
}

func TestCompleteEmptyReply(t *testing.T) {
	p := NewProvider(&fakeChatModel{reply: &schema.Message{Content: "```\n```"}}, nil, zap.NewNop())
	_, err := p.Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	p = NewProvider(&fakeChatModel{}, nil, zap.NewNop())
	_, err = p.Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestCompleteHonoursContextWhileWaiting(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow())

	cm := &fakeChatModel{reply: &schema.Message{Content: "{}"}}
	p := NewProvider(cm, limiter, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Complete(ctx, "s", "u")
	assert.Error(t, err)
	assert.Equal(t, 0, cm.calls)
}

func TestNewWithoutKeyIsDisabled(t *testing.T) {
	c, err := New(config.Config{}, zap.NewNop())
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrUnavailable)
}
