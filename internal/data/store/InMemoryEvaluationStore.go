package store

import (
	"context"
	"sort"
	"sync"

	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/internal/domain/jobModel"
)

type InMemoryEvaluationStore struct {
	lock      *sync.RWMutex
	statusMap map[string]jobModel.StatusRecord
	resultMap map[string]map[string]commonModels.EvaluationResult
	overall   map[string]string
}

func InitInMemoryEvaluationStore() *InMemoryEvaluationStore {
	return &InMemoryEvaluationStore{
		lock:      new(sync.RWMutex),
		statusMap: make(map[string]jobModel.StatusRecord),
		resultMap: make(map[string]map[string]commonModels.EvaluationResult),
		overall:   make(map[string]string),
	}
}

func pairKey(userID string, documentID string) string {
	return userID + ":" + documentID
}

func (store *InMemoryEvaluationStore) SaveStatus(ctx context.Context, userID string, documentID string, record jobModel.StatusRecord) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.statusMap[pairKey(userID, documentID)] = record
	return nil
}

func (store *InMemoryEvaluationStore) GetStatus(ctx context.Context, userID string, documentID string) (jobModel.StatusRecord, bool) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	record, found := store.statusMap[pairKey(userID, documentID)]
	return record, found
}

func (store *InMemoryEvaluationStore) SaveResult(ctx context.Context, userID string, documentID string, result commonModels.EvaluationResult) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	key := pairKey(userID, documentID)
	if store.resultMap[key] == nil {
		store.resultMap[key] = make(map[string]commonModels.EvaluationResult)
	}
	store.resultMap[key][result.CompetencyID] = result
	return nil
}

func (store *InMemoryEvaluationStore) GetResults(ctx context.Context, userID string, documentID string) ([]commonModels.EvaluationResult, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	byCompetency := store.resultMap[pairKey(userID, documentID)]
	results := make([]commonModels.EvaluationResult, 0, len(byCompetency))
	for _, result := range byCompetency {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CompetencyID < results[j].CompetencyID
	})
	return results, nil
}

func (store *InMemoryEvaluationStore) SaveOverallAssessment(ctx context.Context, userID string, documentID string, text string) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.overall[pairKey(userID, documentID)] = text
	return nil
}

func (store *InMemoryEvaluationStore) GetOverallAssessment(ctx context.Context, userID string, documentID string) (string, bool) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	text, found := store.overall[pairKey(userID, documentID)]
	return text, found && text != ""
}
