package snowflake

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
)

// Ensure LLM implements the interface.
var _ driven.LLMService = (*LLM)(nil)

// LLM exposes SNOWFLAKE.CORTEX.COMPLETE as the completion function.
// It borrows the store's connection and does not close it.
type LLM struct {
	store *Store
}

// LLM returns the completion view of the store.
func (s *Store) LLM() *LLM {
	return &LLM{store: s}
}

func (l *LLM) model(override string) string {
	if override != "" {
		return override
	}
	return l.store.cfg.Model
}

// Generate runs a single-prompt completion. Token and temperature options
// switch to the conversational form, which is the only one accepting them.
func (l *LLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		return l.Chat(ctx, []driven.ChatMessage{{Role: "user", Content: prompt}}, driven.ChatOptions(opts))
	}

	var out string
	err := l.store.db.QueryRowContext(ctx,
		`SELECT SNOWFLAKE.CORTEX.COMPLETE(?, ?)`, l.model(opts.Model), prompt).Scan(&out)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	return out, nil
}

// Chat runs the conversational form of COMPLETE.
func (l *LLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	msgs, options, err := completeArgs(messages, opts)
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}

	var body string
	err = l.store.db.QueryRowContext(ctx,
		`SELECT SNOWFLAKE.CORTEX.COMPLETE(?, PARSE_JSON(?), PARSE_JSON(?))`,
		l.model(opts.Model), msgs, options).Scan(&body)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	return parseCompleteResponse(body)
}

// completeArgs encodes the message array and options object of the
// conversational COMPLETE call.
func completeArgs(messages []driven.ChatMessage, opts driven.ChatOptions) (string, string, error) {
	msgs := `[]`
	var err error
	for _, m := range messages {
		role := m.Role
		if role == "" {
			role = "user"
		}
		msg := map[string]string{"role": role, "content": m.Content}
		if msgs, err = sjson.Set(msgs, "-1", msg); err != nil {
			return "", "", err
		}
	}

	options := `{}`
	if opts.MaxTokens > 0 {
		if options, err = sjson.Set(options, "max_tokens", opts.MaxTokens); err != nil {
			return "", "", err
		}
	}
	if opts.Temperature > 0 {
		if options, err = sjson.Set(options, "temperature", opts.Temperature); err != nil {
			return "", "", err
		}
	}
	return msgs, options, nil
}

// parseCompleteResponse extracts the text of the first choice.
func parseCompleteResponse(body string) (string, error) {
	if !gjson.Valid(body) {
		return "", fmt.Errorf("invalid completion response: %.80q", body)
	}
	msg := gjson.Get(body, "choices.0.messages")
	if !msg.Exists() {
		return "", fmt.Errorf("completion response has no choices")
	}
	return strings.TrimSpace(msg.String()), nil
}

// ModelName returns the default completion model.
func (l *LLM) ModelName() string {
	return l.store.cfg.Model
}

// Ping checks the connection.
func (l *LLM) Ping(ctx context.Context) error {
	return l.store.db.PingContext(ctx)
}

// Close is a no-op; the store owns the connection.
func (l *LLM) Close() error {
	return nil
}
