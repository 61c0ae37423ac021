package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"citystyle-be/internal/pkg/logger"
	"citystyle-be/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	replies []string
	errs    []error
	calls   int
	history [][]Message
	options []Option
}

func (s *scriptedProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	i := s.calls
	s.calls++
	s.history = append(s.history, history)
	s.options = options
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", nil
}

func fastPolicy() retry.Policy {
	return retry.Policy{MaxRetries: 3, InitialDelay: time.Millisecond}
}

func TestCompletionClient_SendsSystemAndUser(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"  Trench coats are back.  "}}
	client := NewCompletionClient(provider, fastPolicy(), logger.NewNopLogger())

	got, err := client.Complete(context.Background(), PromptPair{SystemInstruction: "sys", UserMessage: "usr"})

	require.NoError(t, err)
	assert.True(t, got.Present())
	assert.Equal(t, "Trench coats are back.", got.Text)
	require.Len(t, provider.history, 1)
	assert.Equal(t, []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "usr"}}, provider.history[0])
}

func TestCompletionClient_EmptyTextIsRetried(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"", "   ", "ok"}}
	client := NewCompletionClient(provider, fastPolicy(), logger.NewNopLogger())

	got, err := client.Complete(context.Background(), PromptPair{})

	require.NoError(t, err)
	assert.Equal(t, "ok", got.Text)
	assert.Equal(t, 3, provider.calls)
}

func TestCompletionClient_Unavailable(t *testing.T) {
	boom := errors.New("503")
	provider := &scriptedProvider{errs: []error{boom, boom, boom, boom}}
	client := NewCompletionClient(provider, fastPolicy(), logger.NewNopLogger())

	got, err := client.Complete(context.Background(), PromptPair{})

	assert.False(t, got.Present())
	assert.ErrorIs(t, err, ErrCompletionUnavailable)
	assert.ErrorIs(t, err, retry.ErrRetriesExhausted)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, provider.calls)
}

func TestCompletionClient_AlwaysEmpty(t *testing.T) {
	provider := &scriptedProvider{}
	client := NewCompletionClient(provider, fastPolicy(), logger.NewNopLogger())

	_, err := client.Complete(context.Background(), PromptPair{})

	assert.ErrorIs(t, err, ErrCompletionUnavailable)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestCompletionClient_ForwardsOptions(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"ok"}}
	client := NewCompletionClient(provider, fastPolicy(), logger.NewNopLogger(), WithTemperature(0.2), WithMaxTokens(256))

	_, err := client.Complete(context.Background(), PromptPair{SystemInstruction: "sys", UserMessage: "usr"})

	require.NoError(t, err)
	applied := ApplyOptions(provider.options...)
	assert.Equal(t, 0.2, applied.Temperature)
	assert.Equal(t, 256, applied.MaxTokens)
}
