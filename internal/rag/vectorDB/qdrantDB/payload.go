package qdrantDB

import (
	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/qdrant/go-client/qdrant"
)

// chunkPayload flattens a chunk into the stored payload. Empty optional
// fields are omitted rather than written as nulls.
func chunkPayload(chunk commonModels.Chunk) map[string]any {
	payload := map[string]any{
		"chunk_id":     chunk.ChunkID,
		"text":         chunk.Text,
		"role":         string(chunk.Role),
		"document_id":  chunk.DocumentID,
		"chunk_index":  int64(chunk.ChunkIndex),
		"total_chunks": int64(chunk.TotalChunks),
	}

	if chunk.ConversationID != "" {
		payload["conversation_id"] = chunk.ConversationID
	}
	if chunk.ConversationTitle != "" {
		payload["conversation_title"] = chunk.ConversationTitle
	}
	if chunk.PrecedingTurnText != "" {
		payload["preceding_turn_text"] = chunk.PrecedingTurnText
		payload["preceding_turn_role"] = string(chunk.PrecedingTurnRole)
	}
	if chunk.PrevChunkID != "" {
		payload["prev_chunk_id"] = chunk.PrevChunkID
	}
	if chunk.NextChunkID != "" {
		payload["next_chunk_id"] = chunk.NextChunkID
	}
	if chunk.CreatedAt != "" {
		payload["created_at"] = chunk.CreatedAt
	}
	if len(chunk.CompetencyTags) > 0 {
		tags := make([]any, 0, len(chunk.CompetencyTags))
		for _, tag := range chunk.CompetencyTags {
			tags = append(tags, tag)
		}
		payload["competency_tags"] = tags
	}
	return payload
}

func chunkFromPayload(payload map[string]*qdrant.Value) commonModels.Chunk {
	chunk := commonModels.Chunk{
		ChunkID:           payload["chunk_id"].GetStringValue(),
		Text:              payload["text"].GetStringValue(),
		Role:              commonModels.Role(payload["role"].GetStringValue()),
		DocumentID:        payload["document_id"].GetStringValue(),
		ConversationID:    payload["conversation_id"].GetStringValue(),
		ConversationTitle: payload["conversation_title"].GetStringValue(),
		PrecedingTurnText: payload["preceding_turn_text"].GetStringValue(),
		PrecedingTurnRole: commonModels.Role(payload["preceding_turn_role"].GetStringValue()),
		ChunkIndex:        int(payload["chunk_index"].GetIntegerValue()),
		TotalChunks:       int(payload["total_chunks"].GetIntegerValue()),
		PrevChunkID:       payload["prev_chunk_id"].GetStringValue(),
		NextChunkID:       payload["next_chunk_id"].GetStringValue(),
		CreatedAt:         payload["created_at"].GetStringValue(),
	}

	if list := payload["competency_tags"].GetListValue(); list != nil {
		for _, v := range list.GetValues() {
			chunk.CompetencyTags = append(chunk.CompetencyTags, v.GetStringValue())
		}
	}
	return chunk
}
