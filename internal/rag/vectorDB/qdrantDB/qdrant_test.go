package qdrantDB

import (
	"reflect"
	"testing"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

func TestChunkPayload_RoundTrip(t *testing.T) {
	chunk := commonModels.Chunk{
		ChunkID:           "doc-7-2",
		Role:              commonModels.RoleUser,
		Text:              "I led the migration.",
		DocumentID:        "doc-7",
		ConversationID:    "conv-1",
		ConversationTitle: "Migration retro",
		PrecedingTurnText: "What was your part in it?",
		PrecedingTurnRole: commonModels.RoleAssistant,
		ChunkIndex:        2,
		TotalChunks:       3,
		PrevChunkID:       "doc-7-1",
		NextChunkID:       "doc-7-3",
		CompetencyTags:    []string{"leadership", "communication"},
		CreatedAt:         "2026-08-31T10:00:00Z",
	}

	restored := chunkFromPayload(qdrant.NewValueMap(chunkPayload(chunk)))

	if !reflect.DeepEqual(restored, chunk) {
		t.Fatalf("round trip mangled the chunk:\n got  %+v\n want %+v", restored, chunk)
	}
}

func TestChunkPayload_OmitsEmptyOptionalFields(t *testing.T) {
	chunk := commonModels.Chunk{
		ChunkID:     "doc-7-0",
		Role:        commonModels.RoleUser,
		Text:        "short answer",
		DocumentID:  "doc-7",
		ChunkIndex:  0,
		TotalChunks: 1,
	}

	payload := chunkPayload(chunk)

	for _, key := range []string{
		"conversation_id", "conversation_title", "preceding_turn_text",
		"preceding_turn_role", "prev_chunk_id", "next_chunk_id",
		"created_at", "competency_tags",
	} {
		if _, ok := payload[key]; ok {
			t.Errorf("empty optional field %q should be omitted, got %v", key, payload[key])
		}
	}
	for _, key := range []string{"chunk_id", "text", "role", "document_id", "chunk_index", "total_chunks"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("required field %q missing from payload", key)
		}
	}

	restored := chunkFromPayload(qdrant.NewValueMap(payload))
	if !reflect.DeepEqual(restored, chunk) {
		t.Fatalf("minimal chunk did not survive the round trip: %+v", restored)
	}
}

func TestPointID_DeterministicAndDistinct(t *testing.T) {
	if pointID("doc-7-0") != pointID("doc-7-0") {
		t.Error("same chunk id must always map to the same point id")
	}
	if pointID("doc-7-0") == pointID("doc-7-1") {
		t.Error("different chunk ids must not collide")
	}
	if _, err := uuid.Parse(pointID("doc-7-0")); err != nil {
		t.Errorf("point id must be a valid UUID: %v", err)
	}
}

func TestCollectionName_IsolatesNamespaces(t *testing.T) {
	if collectionName("u1") == collectionName("u2") {
		t.Error("distinct namespaces must map to distinct collections")
	}
	if got, want := collectionName("u1"), config.NamespacePrefix+"u1"; got != want {
		t.Errorf("collection name = %q, want %q", got, want)
	}
}
