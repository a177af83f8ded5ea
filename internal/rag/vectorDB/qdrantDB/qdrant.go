package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/internal/rag/vectorDB"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj   *qdrant.Client
	logger *logger_i.Logger
}

func NewQdrantClient(ctx context.Context) (*ClientHolder, error) {
	logger := logger_i.NewLogger("Qdrant")

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))
	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil, err
	}

	go closeQdrant(ctx, client, logger)
	return &ClientHolder{QObj: client, logger: logger}, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client, logger *logger_i.Logger) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

// collectionName maps a user namespace onto its own collection, which is what
// gives the hard isolation guarantee between users.
func collectionName(namespace string) string {
	return config.NamespacePrefix + namespace
}

// pointID derives a stable UUID from the chunk id. Qdrant point ids must be
// UUIDs, and a v5 UUID keeps re-runs of the same document idempotent.
func pointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

func (db *ClientHolder) EnsureNamespace(ctx context.Context, namespace string) error {
	name := collectionName(namespace)
	if namespace == "" {
		return errors.New("empty namespace")
	}

	exists, err := db.QObj.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, namespace string, chunks []commonModels.Chunk, vectors [][]float32) error {
	loggr := db.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	name := collectionName(namespace)

	// The index caps payload size per call, so large jobs go up in fixed
	// sub-batches. A sub-batch that fails does not roll back committed ones.
	for i := 0; i < len(chunks); i += config.UpsertBatchSize {
		end := i + config.UpsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		points := make([]*qdrant.PointStruct, 0, end-i)
		for j := i; j < end; j++ {
			points = append(points, &qdrant.PointStruct{
				Id:      qdrant.NewID(pointID(chunks[j].ChunkID)),
				Vectors: qdrant.NewVectors(vectors[j]...),
				Payload: qdrant.NewValueMap(chunkPayload(chunks[j])),
			})
		}

		_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: name,
			Points:         points,
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return fmt.Errorf("qdrant upsert failed on batch %d: %w", i/config.UpsertBatchSize+1, err)
		}
		loggr.Debug("Upserted sub-batch", "namespace", namespace, "count", len(points))
	}

	return nil
}

func (db *ClientHolder) Query(ctx context.Context, namespace string, vector []float32, topK uint64, tagFilter string) ([]vectorDB.Match, error) {
	loggr := db.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	name := collectionName(namespace)
	exists, err := db.QObj.CollectionExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		// nothing upserted for this user yet - a valid empty result
		return nil, nil
	}

	var filter *qdrant.Filter
	if tagFilter != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("competency_tags", tagFilter)},
		}
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(topK),
		Filter:         filter,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	matches := make([]vectorDB.Match, 0, len(result))
	for _, hit := range result {
		chunk := chunkFromPayload(hit.Payload)
		matches = append(matches, vectorDB.Match{
			ID:    chunk.ChunkID,
			Score: hit.Score,
			Chunk: chunk,
		})
	}
	return matches, nil
}

func (db *ClientHolder) NamespaceCount(ctx context.Context, namespace string) (uint64, error) {
	name := collectionName(namespace)
	exists, err := db.QObj.CollectionExists(ctx, name)
	if err != nil || !exists {
		return 0, err
	}
	return db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: name,
		Exact:          qdrant.PtrOf(true),
	})
}
