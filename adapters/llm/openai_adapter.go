package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/financial-frontier/backend/internal/application/service"
	"github.com/financial-frontier/backend/internal/config"
	"github.com/financial-frontier/backend/internal/domain/topic"
	"github.com/financial-frontier/backend/internal/domain/user"
	"github.com/financial-frontier/backend/pkg/logger"
)

const rankingSystemPrompt = "You are an expert financial education AI that only outputs a prioritized, " +
	"comma-separated list of topic IDs. DO NOT include any explanatory text, quotation marks, or prefixes."

type openAIRankingAdapter struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     logger.Logger
}

func NewOpenAIRankingAdapter(cfg config.Config, log logger.Logger) (service.RankingService, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("openai API key is not configured")
	}

	clientCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAI.BaseURL
	}

	client := openai.NewClientWithConfig(clientCfg)

	log.Info("OpenAI Ranking Adapter initialized", zap.String("model", cfg.OpenAI.Model))
	return &openAIRankingAdapter{
		client:  client,
		model:   cfg.OpenAI.Model,
		timeout: cfg.OpenAI.Timeout,
		log:     log,
	}, nil
}

func (a *openAIRankingAdapter) RankTopics(ctx context.Context, quiz user.QuizResult) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: rankingSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildRankingPrompt(quiz),
			},
		},
		// Low temperature for near-deterministic list output.
		Temperature: 0.1,
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: chat completion request failed: %v", service.ErrRankingUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: oracle returned no choices", service.ErrRankingUnavailable)
	}

	ranked := parseRankingResponse(resp.Choices[0].Message.Content)
	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: oracle response contained no topics", service.ErrRankingUnavailable)
	}

	return ranked, nil
}

func buildRankingPrompt(quiz user.QuizResult) string {
	var b strings.Builder
	b.WriteString("Analyze the following user's financial assessment results from the onboarding quiz.\n")
	fmt.Fprintf(&b, "The user has indicated they are primarily a %s and scored poorly on topics like: %s.\n",
		quiz.FinancialTendency, strings.Join(quiz.Weaknesses, ", "))
	fmt.Fprintf(&b, "Their main goal is to focus on %s.\n\n", quiz.PrimaryGoal)
	fmt.Fprintf(&b, "Based on this, generate a prioritized learning path consisting ONLY of the following topic IDs, "+
		"ordered from most critical to least critical for their success:\n['%s'].\n\n",
		strings.Join(topic.DefaultOrder(), "', '"))
	b.WriteString("Respond with a single, comma-separated list of the topic IDs, with NO extra text, quotes, or formatting.\n")
	b.WriteString("Example response format: credit,debt,budgeting,saving,investing")
	return b.String()
}

// parseRankingResponse splits the raw oracle output on commas, trimming and
// lower-casing each token and dropping empties. Set-membership is not checked
// here; the orchestrator sanitizes against the catalog.
func parseRankingResponse(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		token := strings.ToLower(strings.TrimSpace(p))
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}
