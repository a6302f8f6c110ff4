package sqlite

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
)

// fakeLLM answers classification prompts by keyword.
type fakeLLM struct {
	mu      sync.Mutex
	labels  map[string]string // substring of prompt -> label
	models  []string
	prompts []string
	err     error
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.models = append(f.models, opts.Model)
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	for key, label := range f.labels {
		if strings.Contains(prompt, key) {
			return label, nil
		}
	}
	return "Snacks", nil
}

func (f *fakeLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	return "", nil
}

func (f *fakeLLM) ModelName() string          { return "fake" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }

// keywordEmbedder embeds text as counts of three ingredient words.
type keywordEmbedder struct {
	err error
}

var keywords = []string{"chicken", "chocolate", "romaine"}

func (k *keywordEmbedder) vector(text string) []float32 {
	text = strings.ToLower(text)
	v := make([]float32, len(keywords))
	for i, kw := range keywords {
		v[i] = float32(strings.Count(text, kw))
	}
	return v
}

func (k *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if k.err != nil {
		return nil, k.err
	}
	return k.vector(text), nil
}

func (k *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if k.err != nil {
		return nil, k.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = k.vector(t)
	}
	return out, nil
}

func (k *keywordEmbedder) Dimensions() int            { return len(keywords) }
func (k *keywordEmbedder) ModelName() string          { return "keywords" }
func (k *keywordEmbedder) Ping(context.Context) error { return nil }
func (k *keywordEmbedder) Close() error               { return nil }
