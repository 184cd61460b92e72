package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type fakeCompleter struct {
	reply   string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

func testService(completer Completer) Service {
	return NewAdvisorService(completer, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSeverityDescription(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, "CRITICAL"},
		{90, "CRITICAL"},
		{80, "SEVERE"},
		{75, "SEVERE"},
		{60, "MODERATE"},
		{50, "MODERATE"},
		{30, "MINOR"},
		{25, "MINOR"},
		{10, "MINIMAL"},
		{0, "MINIMAL"},
	}
	for _, tc := range cases {
		if got := SeverityDescription(tc.score); got != tc.want {
			t.Errorf("SeverityDescription(%g) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestExplainDisaster_CarriesSeverityLevel(t *testing.T) {
	completer := &fakeCompleter{reply: "  Evacuate low-lying areas.  "}
	svc := testService(completer)

	advice, err := svc.ExplainDisaster(context.Background(), ExplainRequest{
		DisasterType:  "flood",
		Latitude:      28.7,
		Longitude:     77.1,
		SeverityScore: 80,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if advice.Text != "Evacuate low-lying areas." {
		t.Fatalf("expected trimmed reply, got %q", advice.Text)
	}
	if advice.SeverityLevel != "SEVERE" {
		t.Fatalf("expected SEVERE, got %s", advice.SeverityLevel)
	}
	if completer.lastReq.Model != openai.GPT4oMini {
		t.Fatalf("expected default model, got %s", completer.lastReq.Model)
	}
	if len(completer.lastReq.Messages) != 2 || completer.lastReq.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatal("expected system prompt followed by user prompt")
	}
}

func TestPrioritizeResources_RejectsEmptyList(t *testing.T) {
	svc := testService(&fakeCompleter{reply: "ok"})

	_, err := svc.PrioritizeResources(context.Background(), PrioritizeRequest{
		DisasterType: "earthquake",
	})
	if err == nil {
		t.Fatal("expected error for empty resource list")
	}
}

func TestPrioritizeResources_ListsResourcesInPrompt(t *testing.T) {
	completer := &fakeCompleter{reply: "dispatch amb-1 first"}
	svc := testService(completer)

	_, err := svc.PrioritizeResources(context.Background(), PrioritizeRequest{
		DisasterType:  "earthquake",
		SeverityScore: 92,
		AvailableResources: []ResourceSummary{
			{Name: "amb-1", Type: "ambulance", DistanceKM: 2.5},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prompt := completer.lastReq.Messages[1].Content
	if !strings.Contains(prompt, "amb-1 (ambulance type, 2.5 km away)") {
		t.Fatalf("prompt missing resource line: %s", prompt)
	}
	if !strings.Contains(prompt, "CRITICAL") {
		t.Fatalf("prompt missing severity label: %s", prompt)
	}
}

func TestSafetyInstructions_DefaultsLocationType(t *testing.T) {
	completer := &fakeCompleter{reply: "1. Drop, cover, hold on."}
	svc := testService(completer)

	_, err := svc.SafetyInstructions(context.Background(), SafetyRequest{DisasterType: "earthquake"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(completer.lastReq.Messages[1].Content, "urban area") {
		t.Fatal("expected urban default in prompt")
	}
}

func TestComplete_PropagatesFailure(t *testing.T) {
	svc := testService(&fakeCompleter{err: errors.New("rate limited")})

	_, err := svc.ExplainDisaster(context.Background(), ExplainRequest{DisasterType: "flood"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestComplete_EmptyChoiceIsError(t *testing.T) {
	svc := testService(&fakeCompleter{reply: ""})

	_, err := svc.SafetyInstructions(context.Background(), SafetyRequest{DisasterType: "fire"})
	if err == nil {
		t.Fatal("expected error for empty completion")
	}
}
