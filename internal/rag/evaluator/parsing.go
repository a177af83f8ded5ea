package evaluator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
)

// ErrUnparsableResponse marks a response the model returned in a shape we
// could not recover a JSON object from. It fails one competency, not the job.
var ErrUnparsableResponse = errors.New("unparsable evaluation response")

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// evaluationPayload is the wire shape the model is asked for. Score is float
// because models occasionally return 72.0.
type evaluationPayload struct {
	Score             float64                       `json:"score"`
	Confidence        string                        `json:"confidence"`
	ScoreExplanation  string                        `json:"score_explanation"`
	Strengths         []commonModels.AssessedSignal `json:"strengths"`
	Improvements      []commonModels.AssessedSignal `json:"improvements"`
	OverallAssessment string                        `json:"overall_assessment"`
	KeyInsights       []string                      `json:"key_insights"`
}

func (p evaluationPayload) toResult() commonModels.EvaluationResult {
	return commonModels.EvaluationResult{
		Score:             clampScore(int(math.Round(p.Score))),
		Confidence:        p.Confidence,
		ScoreExplanation:  p.ScoreExplanation,
		Strengths:         p.Strengths,
		Improvements:      p.Improvements,
		OverallAssessment: p.OverallAssessment,
		KeyInsights:       p.KeyInsights,
	}
}

// parseEvaluation tolerates markdown fences and chatter around the object,
// which even MIME-typed responses occasionally carry.
func parseEvaluation(raw string) (evaluationPayload, error) {
	var payload evaluationPayload

	candidate := raw
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start == -1 || end <= start {
		return payload, fmt.Errorf("%w: no JSON object found", ErrUnparsableResponse)
	}

	if err := json.Unmarshal([]byte(candidate[start:end+1]), &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}
	return payload, nil
}

func clampScore(score int) int {
	if score < config.MinCompetencyScore {
		return config.MinCompetencyScore
	}
	if score > config.MaxCompetencyScore {
		return config.MaxCompetencyScore
	}
	return score
}
