package evaluator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/internal/rag/llm"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
)

const assessorInstruction = `You are a rigorous career competency assessor.
You judge a person's competency strictly from excerpts of their own conversations.
Cite only text that appears in the provided excerpts. Never invent evidence.
Respond with a single JSON object and nothing else.`

const summaryInstruction = `You are a career coach writing a short overall assessment.
Base it only on the per-competency results you are given. Plain prose, no markdown.`

// Evaluator scores one competency at a time against retrieved conversation
// context. A competency with no context is skipped, not failed.
type Evaluator struct {
	provider llm.Provider
	logger   *logger_i.Logger
}

func New(provider llm.Provider) *Evaluator {
	return &Evaluator{
		provider: provider,
		logger:   logger_i.NewLogger("evaluator"),
	}
}

// Evaluate returns nil with no error when contextBlock is empty: no evidence
// means no judgement, and no generation call is made.
func (e *Evaluator) Evaluate(ctx context.Context, competency commonModels.CompetencyDefinition, profile commonModels.ProfileFacts, contextBlock string) (*commonModels.EvaluationResult, error) {
	log := e.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if strings.TrimSpace(contextBlock) == "" {
		log.Debug("no context for competency, skipping", "competency", competency.Name)
		return nil, nil
	}

	raw, err := e.provider.GenerateStructured(ctx, assessorInstruction, evaluationPrompt(competency, profile, contextBlock))
	if err != nil {
		return nil, fmt.Errorf("generation failed for %q: %w", competency.Name, err)
	}

	payload, err := parseEvaluation(raw)
	if err != nil {
		log.Error("Unparsable evaluation response", "competency", competency.Name, "error", err)
		return nil, err
	}

	result := payload.toResult()
	result.CompetencyID = competency.ID
	result.CompetencyName = competency.Name
	result.EvaluatedAt = time.Now().UTC()
	return &result, nil
}

// Summarize produces the document-level overall assessment from whatever
// per-competency results exist.
func (e *Evaluator) Summarize(ctx context.Context, profile commonModels.ProfileFacts, results []commonModels.EvaluationResult) (string, error) {
	if len(results) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("Per-competency results:\n")
	for _, result := range results {
		fmt.Fprintf(&sb, "- %s: score %d/%d. %s\n",
			result.CompetencyName, result.Score, config.MaxCompetencyScore, result.ScoreExplanation)
	}
	if section := profileSection(profile); section != "" {
		sb.WriteString("\n")
		sb.WriteString(section)
	}
	sb.WriteString("\nWrite a 3-5 sentence overall assessment of this person's competencies.")

	return e.provider.GenerateText(ctx, summaryInstruction, sb.String())
}

func evaluationPrompt(competency commonModels.CompetencyDefinition, profile commonModels.ProfileFacts, contextBlock string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Competency: %s\n", competency.Name)
	if competency.Description != "" {
		fmt.Fprintf(&sb, "Definition: %s\n", competency.Description)
	}
	if section := profileSection(profile); section != "" {
		sb.WriteString("\n")
		sb.WriteString(section)
	}

	sb.WriteString("\nConversation excerpts (each separated by ---):\n")
	sb.WriteString(contextBlock)

	fmt.Fprintf(&sb, `

Assess the competency from the excerpts above. Respond with JSON:
{
  "score": <integer %d-%d>,
  "confidence": "<low|medium|high>",
  "score_explanation": "<why this score>",
  "strengths": [{"point": "<observed strength>", "citation": "<quote from excerpts>"}],
  "improvements": [{"point": "<growth area>", "citation": "<quote from excerpts>"}],
  "overall_assessment": "<2-3 sentence summary for this competency>",
  "key_insights": ["<notable observation>"]
}`, config.MinCompetencyScore, config.MaxCompetencyScore)

	return sb.String()
}

func profileSection(profile commonModels.ProfileFacts) string {
	var facts []string
	if profile.JobCategory != "" {
		facts = append(facts, "Field: "+profile.JobCategory)
	}
	if profile.JobRole != "" {
		facts = append(facts, "Role: "+profile.JobRole)
	}
	if len(profile.Skills) > 0 {
		facts = append(facts, "Skills: "+strings.Join(profile.Skills, ", "))
	}
	if len(profile.Certifications) > 0 {
		facts = append(facts, "Certifications: "+strings.Join(profile.Certifications, ", "))
	}
	if len(facts) == 0 {
		return ""
	}
	return "About the person:\n" + strings.Join(facts, "\n") + "\n"
}
