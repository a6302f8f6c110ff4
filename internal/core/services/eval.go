package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// Ensure EvalService implements the interface.
var _ driving.EvalService = (*EvalService)(nil)

var (
	scorePattern   = regexp.MustCompile(`(?i)score\s*:\s*\**\s*([0-9]+(?:\.[0-9]+)?)`)
	reasonsPattern = regexp.MustCompile(`(?is)reasons?\s*:\s*(.*)`)
)

// EvalService answers a question and has a judge model score the answer
// for groundedness, answer relevance and context relevance.
type EvalService struct {
	chat    driving.ChatService
	llm     driven.LLMService
	prompts driven.PromptStore
	model   string
}

// NewEvalService creates an evaluation service judging with model.
func NewEvalService(
	chat driving.ChatService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	model string,
) *EvalService {
	if model == "" {
		model = domain.DefaultCompletionModel
	}
	return &EvalService{chat: chat, llm: llm, prompts: prompts, model: model}
}

// Evaluate asks the question and scores the answer.
func (s *EvalService) Evaluate(ctx context.Context, req domain.AskRequest) (*domain.Evaluation, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	answer, err := s.chat.Ask(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Section("Evaluate")
	question := strings.TrimSpace(req.Query)

	grounded, err := s.groundedness(ctx, answer)
	if err != nil {
		return nil, err
	}
	relevant, err := s.judge(ctx, driven.PromptAnswerRelevance, question, answer.Text)
	if err != nil {
		return nil, fmt.Errorf("answer relevance: %w", err)
	}
	relevant.Metric = domain.MetricAnswerRelevance
	contextScore, err := s.contextRelevance(ctx, question, answer.Context)
	if err != nil {
		return nil, err
	}

	return &domain.Evaluation{
		Question: question,
		Answer:   answer,
		Scores:   []domain.MetricScore{grounded, relevant, contextScore},
	}, nil
}

// groundedness judges the answer against all retrieved chunks at once.
func (s *EvalService) groundedness(ctx context.Context, answer *domain.Answer) (domain.MetricScore, error) {
	if len(answer.Context) == 0 {
		return domain.MetricScore{Metric: domain.MetricGroundedness, Reasons: "no context was retrieved"}, nil
	}
	score, err := s.judge(ctx, driven.PromptGroundedness, formatContext(answer.Context), answer.Text)
	if err != nil {
		return domain.MetricScore{}, fmt.Errorf("groundedness: %w", err)
	}
	score.Metric = domain.MetricGroundedness
	return score, nil
}

// contextRelevance judges each chunk on its own and reports the mean.
func (s *EvalService) contextRelevance(
	ctx context.Context, question string, results []domain.SearchResult,
) (domain.MetricScore, error) {
	out := domain.MetricScore{Metric: domain.MetricContextRelevance}
	if len(results) == 0 {
		out.Reasons = "no context was retrieved"
		return out, nil
	}

	var reasons []string
	for _, r := range results {
		score, err := s.judge(ctx, driven.PromptContextRelevance, question, strings.TrimSpace(r.Chunk))
		if err != nil {
			return domain.MetricScore{}, fmt.Errorf("context relevance of %s: %w", r.RelativePath, err)
		}
		out.Score += score.Score
		if score.Reasons != "" {
			reasons = append(reasons, r.RelativePath+": "+score.Reasons)
		}
	}
	out.Score /= float64(len(results))
	out.Reasons = strings.Join(reasons, "\n")
	return out, nil
}

// judge renders a judge prompt and parses the reply.
func (s *EvalService) judge(ctx context.Context, name, first, second string) (domain.MetricScore, error) {
	template, err := s.prompts.Load(name)
	if err != nil {
		return domain.MetricScore{}, fmt.Errorf("load %s prompt: %w", name, err)
	}
	reply, err := s.llm.Generate(ctx, fmt.Sprintf(template, first, second), driven.GenerateOptions{Model: s.model})
	if err != nil {
		return domain.MetricScore{}, fmt.Errorf("complete: %w", err)
	}
	score, err := parseJudgeReply(reply)
	if err != nil {
		return domain.MetricScore{}, err
	}
	logger.Debug("%s: %.2f", name, score.Score)
	return score, nil
}

// parseJudgeReply reads a "Score: N" line on the 0-3 scale and the text
// after "Reasons:". The score is normalised to [0, 1].
func parseJudgeReply(reply string) (domain.MetricScore, error) {
	m := scorePattern.FindStringSubmatch(reply)
	if m == nil {
		return domain.MetricScore{}, fmt.Errorf("%w: %q", domain.ErrUnscoredReply, truncateReply(reply))
	}
	raw, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return domain.MetricScore{}, fmt.Errorf("%w: %q", domain.ErrUnscoredReply, m[1])
	}
	score := domain.MetricScore{Score: math.Min(raw, domain.MaxJudgeScore) / domain.MaxJudgeScore}
	if r := reasonsPattern.FindStringSubmatch(reply); r != nil {
		score.Reasons = strings.TrimSpace(r[1])
	}
	return score, nil
}

func truncateReply(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
