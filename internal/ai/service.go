package ai

import (
	"context"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	domainerrors "disaster-response/internal/errors"
)

const systemPrompt = "You are an emergency response assistant for a disaster coordination system. " +
	"Answer with operational, actionable guidance for emergency officials and civilians."

type ExplainRequest struct {
	DisasterType  string  `json:"disaster_type" binding:"required"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	SeverityScore float64 `json:"severity_score"`
	Context       string  `json:"context"`
}

type ResourceSummary struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	DistanceKM float64 `json:"distance_km"`
}

type PrioritizeRequest struct {
	DisasterType       string            `json:"disaster_type" binding:"required"`
	SeverityScore      float64           `json:"severity_score"`
	AvailableResources []ResourceSummary `json:"available_resources"`
	CurrentSituation   string            `json:"current_situation"`
}

type SafetyRequest struct {
	DisasterType             string `json:"disaster_type" binding:"required"`
	LocationType             string `json:"location_type"`
	HasVulnerablePopulations bool   `json:"has_vulnerable_populations"`
}

type Advice struct {
	Text          string `json:"text"`
	SeverityLevel string `json:"severity_level,omitempty"`
}

// Completer is the slice of the OpenAI client the service uses, extracted so
// tests can stub the model.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Service interface {
	ExplainDisaster(ctx context.Context, req ExplainRequest) (*Advice, error)
	PrioritizeResources(ctx context.Context, req PrioritizeRequest) (*Advice, error)
	SafetyInstructions(ctx context.Context, req SafetyRequest) (*Advice, error)
}

type service struct {
	client Completer
	model  string
	logger *slog.Logger
}

func NewAdvisorService(client Completer, model string, logger *slog.Logger) Service {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &service{client: client, model: model, logger: logger}
}

func (s *service) ExplainDisaster(ctx context.Context, req ExplainRequest) (*Advice, error) {
	text, err := s.complete(ctx, disasterExplanationPrompt(req), 0.5)
	if err != nil {
		return nil, err
	}
	return &Advice{Text: text, SeverityLevel: SeverityDescription(req.SeverityScore)}, nil
}

func (s *service) PrioritizeResources(ctx context.Context, req PrioritizeRequest) (*Advice, error) {
	if len(req.AvailableResources) == 0 {
		return nil, domainerrors.NewValidation("available_resources must not be empty")
	}
	text, err := s.complete(ctx, resourcePriorityPrompt(req), 0.3)
	if err != nil {
		return nil, err
	}
	return &Advice{Text: text, SeverityLevel: SeverityDescription(req.SeverityScore)}, nil
}

func (s *service) SafetyInstructions(ctx context.Context, req SafetyRequest) (*Advice, error) {
	text, err := s.complete(ctx, safetyInstructionsPrompt(req), 0.3)
	if err != nil {
		return nil, err
	}
	return &Advice{Text: text}, nil
}

func (s *service) complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   600,
		Temperature: temperature,
	})
	if err != nil {
		s.logger.Error("chat completion failed", "error", err)
		return "", domainerrors.NewInternal("ai completion failed", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", domainerrors.NewInternal("ai returned empty response", nil)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
