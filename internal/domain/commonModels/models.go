package commonModels

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationDocument is the converted chat export for one (user, document)
// pair. It is produced by an external converter and read-only here.
type ConversationDocument struct {
	DocumentID    string         `json:"document_id"`
	Conversations []Conversation `json:"conversations"`
}

type Conversation struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

type Message struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Chunk is the unit of embedding: one token-bounded slice of a user utterance.
// PrevChunkID/NextChunkID only link siblings cut from the same source message.
type Chunk struct {
	ChunkID           string
	Role              Role
	Text              string
	DocumentID        string
	ConversationID    string
	ConversationTitle string
	PrecedingTurnText string
	PrecedingTurnRole Role
	ChunkIndex        int
	TotalChunks       int
	PrevChunkID       string
	NextChunkID       string
	CompetencyTags    []string
	CreatedAt         string
}

// CompetencyDefinition is supplied by the caller per job. Query doubles as the
// similarity-tagging text and the retrieval query during evaluation.
type CompetencyDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Query       string `json:"query"`
}

// ProfileFacts are optional user facts threaded into the evaluation prompt.
type ProfileFacts struct {
	JobCategory    string   `json:"job_category,omitempty"`
	JobRole        string   `json:"job_role,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
}

// AssessedSignal is one strength or improvement point with a quote from the
// retrieved context backing it.
type AssessedSignal struct {
	Point    string `json:"point"`
	Citation string `json:"citation"`
}

type EvaluationResult struct {
	CompetencyID      string           `json:"competency_id"`
	CompetencyName    string           `json:"competency_name"`
	Score             int              `json:"score"`
	Confidence        string           `json:"confidence,omitempty"`
	ScoreExplanation  string           `json:"score_explanation"`
	Strengths         []AssessedSignal `json:"strengths"`
	Improvements      []AssessedSignal `json:"improvements"`
	OverallAssessment string           `json:"overall_assessment"`
	KeyInsights       []string         `json:"key_insights"`
	EvaluatedAt       time.Time        `json:"evaluated_at"`
}
