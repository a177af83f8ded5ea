package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/data/redisStore"
	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/internal/domain/jobModel"
	"github.com/careermate/PersonaAPI/pkg/logger_i"
)

// RedisEvaluationStore keeps the per-(user, document) status record, the
// per-competency results and the overall assessment. Everything is
// last-write-wins so a retried job simply overwrites its earlier run.
type RedisEvaluationStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisEvaluationStore(ctx context.Context) *RedisEvaluationStore {
	internal := redisStore.GetRedisStore(ctx, config.RedisEvaluationStore)
	if internal == nil {
		return nil
	}
	return &RedisEvaluationStore{
		store:  internal,
		logger: logger_i.NewLogger("EvaluationStore"),
	}
}

func statusKey(userID string, documentID string) string {
	return "status:" + userID + ":" + documentID
}

func resultKey(userID string, documentID string, competencyID string) string {
	return "result:" + userID + ":" + documentID + ":" + competencyID
}

func overallKey(userID string, documentID string) string {
	return "overall:" + userID + ":" + documentID
}

func (s *RedisEvaluationStore) SaveStatus(ctx context.Context, userID string, documentID string, record jobModel.StatusRecord) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "user", userID, "document", documentID)

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, statusKey(userID, documentID), data, config.RedisEvaluationStoreTTL)
	if err == nil {
		log.Debug("Saved status", "state", record.State)
	}
	return err
}

func (s *RedisEvaluationStore) GetStatus(ctx context.Context, userID string, documentID string) (jobModel.StatusRecord, bool) {
	var record jobModel.StatusRecord

	val, err := s.store.Get(ctx, statusKey(userID, documentID))
	if s.store.IsNil(err) || err != nil {
		return record, false
	}
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return record, false
	}
	return record, true
}

func (s *RedisEvaluationStore) SaveResult(ctx context.Context, userID string, documentID string, result commonModels.EvaluationResult) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "user", userID, "document", documentID)

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, resultKey(userID, documentID, result.CompetencyID), data, config.RedisEvaluationStoreTTL)
	if err == nil {
		log.Debug("Saved result", "competency", result.CompetencyName)
	}
	return err
}

func (s *RedisEvaluationStore) GetResults(ctx context.Context, userID string, documentID string) ([]commonModels.EvaluationResult, error) {
	keys, err := s.store.Keys(ctx, resultKey(userID, documentID, "*"))
	if err != nil {
		return nil, err
	}

	results := make([]commonModels.EvaluationResult, 0, len(keys))
	for _, key := range keys {
		val, err := s.store.Get(ctx, key)
		if s.store.IsNil(err) {
			// expired between SCAN and GET
			continue
		}
		if err != nil {
			return nil, err
		}
		var result commonModels.EvaluationResult
		if err := json.Unmarshal([]byte(val), &result); err != nil {
			s.logger.Error("Skipping undecodable result", "key", key, "error", err)
			continue
		}
		results = append(results, result)
	}

	// SCAN order is arbitrary
	sort.Slice(results, func(i, j int) bool {
		return results[i].CompetencyID < results[j].CompetencyID
	})
	return results, nil
}

func (s *RedisEvaluationStore) SaveOverallAssessment(ctx context.Context, userID string, documentID string, text string) error {
	return s.store.Set(ctx, overallKey(userID, documentID), text, config.RedisEvaluationStoreTTL)
}

func (s *RedisEvaluationStore) GetOverallAssessment(ctx context.Context, userID string, documentID string) (string, bool) {
	val, err := s.store.Get(ctx, overallKey(userID, documentID))
	if err != nil {
		return "", false
	}
	return val, val != ""
}

func TestEvaluationStore(store *redisStore.Store) *RedisEvaluationStore {
	return &RedisEvaluationStore{
		store:  store,
		logger: logger_i.NewLogger("test evaluation redis"),
	}
}
