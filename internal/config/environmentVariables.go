package config

import (
	"log/slog"
	"os"
	"time"
)

type ContextKey string

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = ContextKey("traceId")

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking
	MaxTokensPerChunk = 400
	TokenizerEncoding = "cl100k_base"

	//competency tagging - threshold and tag cap are empirical, keep them here not hardcoded
	SimilarityThreshold float64 = 0.25
	MaxCompetencyTags           = 3

	//retrieval
	RetrievalTopK  uint64 = 5
	EvaluationTopK uint64 = 3

	//TODO:this will differ based on the request and provider
	EmbeddingOutputDimensionality int32 = 1536
	NamespacePrefix                     = "persona-"
	UpsertBatchSize                     = 100

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//a job runs chunking, embedding, upserts and several LLM calls
	JobTimeout = 10 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost     = ""
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false
	QdrantPoolSize = 1 //2-5 is preferred for prod according to documentation

	//llm
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"

	//score scale used by the evaluator, clamped on parse
	MinCompetencyScore = 1
	MaxCompetencyScore = 100

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore        = 0
	RedisEvaluationStore = 1

	//redis timeouts
	RedisJobStoreTTL        = 24 * time.Hour
	RedisEvaluationStoreTTL = 0 //status and results stay until overwritten by a retried job

	//converted conversation exports land here, one JSON per (user, document)
	DocumentRootDir = "conversation_documents"

	NoAuthBypass = true
	AuthToken    = ""
)

func GoogleAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}
