package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/data/docsource"
	"github.com/careermate/PersonaAPI/internal/data/store"
	jobmodel "github.com/careermate/PersonaAPI/internal/domain/jobModel"
	"github.com/careermate/PersonaAPI/internal/handlers"
	"github.com/careermate/PersonaAPI/internal/job"
	"github.com/careermate/PersonaAPI/internal/rag"
	"github.com/careermate/PersonaAPI/internal/rag/chunker"
	"github.com/careermate/PersonaAPI/internal/rag/embedding/googleEmbedding"
	"github.com/careermate/PersonaAPI/internal/rag/evaluator"
	"github.com/careermate/PersonaAPI/internal/rag/llm/gemini"
	"github.com/careermate/PersonaAPI/internal/rag/retriever"
	"github.com/careermate/PersonaAPI/internal/rag/tagger"
	"github.com/careermate/PersonaAPI/internal/rag/tokenizer"
	"github.com/careermate/PersonaAPI/internal/rag/vectorDB/qdrantDB"
	"github.com/careermate/PersonaAPI/internal/server"
	"github.com/careermate/PersonaAPI/internal/worker"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
	"github.com/joho/godotenv"
)

var (
	listenAddr        string
	documentRoot      string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.StringVar(&documentRoot, "document-root", config.DocumentRootDir, "root directory for converted conversation documents")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and stores
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	jobStore := store.GetRedisJobStore(serviceContext)
	evaluationStore := store.GetRedisEvaluationStore(serviceContext)
	if jobStore == nil || evaluationStore == nil {
		logger.Error("Redis stores are offline, falling back to in-memory stores")
		inMemEvaluation := store.InitInMemoryEvaluationStore()
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.StatusStore = inMemEvaluation
		serviceConfig.ResultStore = inMemEvaluation
	} else {
		serviceConfig.JobStore = jobStore
		serviceConfig.StatusStore = evaluationStore
		serviceConfig.ResultStore = evaluationStore
	}
	service := job.InitJobService(serviceConfig)

	apiKey := config.GoogleAPIKey()

	vectorDB, vectorErr := qdrantDB.NewQdrantClient(serviceContext)
	embeddingService, embedErr := googleEmbedding.NewGoogleEmbedder(serviceContext, config.GoogleEmbeddingModel, apiKey)
	llmProvider, llmErr := gemini.NewGeminiClient(serviceContext, config.GeminiModelName, apiKey)
	codec, codecErr := tokenizer.NewTiktoken()

	if vectorErr != nil || embedErr != nil || llmErr != nil || codecErr != nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorErr == nil, "EmbeddingService", embedErr == nil,
			"LLMProvider", llmErr == nil, "Tokenizer", codecErr == nil)
		return
	}

	ragService := rag.NewService(
		docsource.NewFileSource(documentRoot),
		chunker.New(codec, config.MaxTokensPerChunk),
		embeddingService,
		vectorDB,
		tagger.New(embeddingService),
		retriever.New(embeddingService, vectorDB),
		evaluator.New(llmProvider),
		service.StatusStore,
		service.ResultStore,
	)

	handlers.InitJobHandler(service)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
