package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"

	"erpchat/config"
	"erpchat/metrics"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat completion request.
type Message struct {
	Role    Role
	Content string
}

// Purposes label completion calls in logs and metrics.
const (
	PurposeTables  = "tables"
	PurposeSQL     = "sql"
	PurposeSummary = "summary"
)

type AIService struct {
	client      openai.Client
	modelName   string
	temperature float64
	logger      *logrus.Entry
}

func New(cfg config.OpenAIConfig, logger *logrus.Entry) (*AIService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(120 * time.Second),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AIService{
		client:      openai.NewClient(opts...),
		modelName:   cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

func (a *AIService) Model() string {
	return a.modelName
}

func toParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// Generate runs one chat completion and returns the text of the first choice. A
// response without choices yields empty text.
func (a *AIService) Generate(ctx context.Context, purpose string, messages []Message) (string, error) {
	start := time.Now()
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       a.modelName,
		Messages:    toParams(messages),
		Temperature: openai.Float(a.temperature),
	})
	metrics.RecordLLMCall(purpose, err)
	if err != nil {
		a.logger.WithError(err).WithField("purpose", purpose).Error("chat completion failed")
		return "", fmt.Errorf("failed to get AI response: %w", err)
	}

	if len(resp.Choices) == 0 {
		a.logger.WithField("purpose", purpose).Warn("chat completion returned no choices")
		return "", nil
	}

	text := resp.Choices[0].Message.Content
	a.logger.WithFields(logrus.Fields{
		"purpose":  purpose,
		"model":    a.modelName,
		"duration": time.Since(start).String(),
		"response": text,
	}).Debug("chat completion received")
	return text, nil
}
