package evaluator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
)

type mockProvider struct {
	OnGenerateStructured func(ctx context.Context, systemInstruction string, prompt string) (string, error)
	OnGenerateText       func(ctx context.Context, systemInstruction string, prompt string) (string, error)
}

func (m *mockProvider) GenerateStructured(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	return m.OnGenerateStructured(ctx, systemInstruction, prompt)
}

func (m *mockProvider) GenerateText(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	return m.OnGenerateText(ctx, systemInstruction, prompt)
}

var leadership = commonModels.CompetencyDefinition{
	ID:          "c1",
	Name:        "leadership",
	Description: "owning outcomes and guiding others",
}

func TestEvaluate_EmptyContextSkipsWithoutCalling(t *testing.T) {
	called := false
	eval := New(&mockProvider{
		OnGenerateStructured: func(ctx context.Context, systemInstruction string, prompt string) (string, error) {
			called = true
			return "{}", nil
		},
	})

	result, err := eval.Evaluate(context.Background(), leadership, commonModels.ProfileFacts{}, "   ")
	if err != nil {
		t.Fatal(err)
	}
	if result != nil {
		t.Fatalf("expected nil result for empty context, got %+v", result)
	}
	if called {
		t.Fatal("provider must not be called when there is no context")
	}
}

func TestEvaluate_ParsesFencedResponse(t *testing.T) {
	response := "Sure, here is the assessment:\n```json\n" +
		`{"score": 72, "confidence": "high", "score_explanation": "clear ownership",
		  "strengths": [{"point": "drives delivery", "citation": "I led the migration"}],
		  "improvements": [], "overall_assessment": "strong", "key_insights": ["owns outcomes"]}` +
		"\n```"

	eval := New(&mockProvider{
		OnGenerateStructured: func(ctx context.Context, systemInstruction string, prompt string) (string, error) {
			return response, nil
		},
	})

	result, err := eval.Evaluate(context.Background(), leadership, commonModels.ProfileFacts{}, "user: I led the migration")
	if err != nil {
		t.Fatal(err)
	}
	if result.Score != 72 || result.Confidence != "high" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.CompetencyID != "c1" || result.CompetencyName != "leadership" {
		t.Fatalf("competency identity not filled: %+v", result)
	}
	if len(result.Strengths) != 1 || result.Strengths[0].Citation != "I led the migration" {
		t.Fatalf("strengths not parsed: %+v", result.Strengths)
	}
	if result.EvaluatedAt.IsZero() {
		t.Fatal("EvaluatedAt must be set")
	}
}

func TestEvaluate_ClampsOutOfRangeScores(t *testing.T) {
	for raw, want := range map[string]int{
		`{"score": 250}`:  100,
		`{"score": -3}`:   1,
		`{"score": 0}`:    1,
		`{"score": 55.6}`: 56,
	} {
		eval := New(&mockProvider{
			OnGenerateStructured: func(ctx context.Context, systemInstruction string, prompt string) (string, error) {
				return raw, nil
			},
		})
		result, err := eval.Evaluate(context.Background(), leadership, commonModels.ProfileFacts{}, "user: hi")
		if err != nil {
			t.Fatal(err)
		}
		if result.Score != want {
			t.Fatalf("%s: got score %d, want %d", raw, result.Score, want)
		}
	}
}

func TestEvaluate_GarbageResponseIsUnparsable(t *testing.T) {
	eval := New(&mockProvider{
		OnGenerateStructured: func(ctx context.Context, systemInstruction string, prompt string) (string, error) {
			return "I cannot assess this person.", nil
		},
	})

	_, err := eval.Evaluate(context.Background(), leadership, commonModels.ProfileFacts{}, "user: hi")
	if !errors.Is(err, ErrUnparsableResponse) {
		t.Fatalf("expected ErrUnparsableResponse, got %v", err)
	}
}

func TestEvaluate_PromptCarriesProfileAndContext(t *testing.T) {
	var gotPrompt string
	eval := New(&mockProvider{
		OnGenerateStructured: func(ctx context.Context, systemInstruction string, prompt string) (string, error) {
			gotPrompt = prompt
			return `{"score": 50}`, nil
		},
	})

	profile := commonModels.ProfileFacts{
		JobRole: "backend engineer",
		Skills:  []string{"go", "postgres"},
	}
	_, err := eval.Evaluate(context.Background(), leadership, profile, "user: I led the migration")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"leadership", "backend engineer", "go, postgres", "I led the migration"} {
		if !strings.Contains(gotPrompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, gotPrompt)
		}
	}
}

func TestSummarize_EmptyResultsMakesNoCall(t *testing.T) {
	eval := New(&mockProvider{
		OnGenerateText: func(ctx context.Context, systemInstruction string, prompt string) (string, error) {
			t.Fatal("must not generate with no results")
			return "", nil
		},
	})

	got, err := eval.Summarize(context.Background(), commonModels.ProfileFacts{}, nil)
	if err != nil || got != "" {
		t.Fatalf("expected empty summary, got %q err %v", got, err)
	}
}

func TestSummarize_FeedsResultsToProvider(t *testing.T) {
	var gotPrompt string
	eval := New(&mockProvider{
		OnGenerateText: func(ctx context.Context, systemInstruction string, prompt string) (string, error) {
			gotPrompt = prompt
			return "A capable engineer overall.", nil
		},
	})

	results := []commonModels.EvaluationResult{
		{CompetencyName: "leadership", Score: 72, ScoreExplanation: "clear ownership"},
		{CompetencyName: "communication", Score: 61, ScoreExplanation: "direct but terse"},
	}
	got, err := eval.Summarize(context.Background(), commonModels.ProfileFacts{}, results)
	if err != nil {
		t.Fatal(err)
	}
	if got != "A capable engineer overall." {
		t.Fatalf("unexpected summary %q", got)
	}
	for _, want := range []string{"leadership", "72", "communication", "direct but terse"} {
		if !strings.Contains(gotPrompt, want) {
			t.Fatalf("summary prompt missing %q", want)
		}
	}
}
