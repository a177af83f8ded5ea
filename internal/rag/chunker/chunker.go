package chunker

import (
	"fmt"
	"strings"

	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
	"github.com/careermate/PersonaAPI/internal/rag/tokenizer"
)

// Chunker partitions user utterances into token-bounded chunks. Chunk ids,
// text and linkage are pure functions of the document, so a retried job
// regenerates byte-identical output and upserts converge on the same vectors.
type Chunker struct {
	codec     tokenizer.Tokenizer
	maxTokens int
}

func New(codec tokenizer.Tokenizer, maxTokens int) *Chunker {
	return &Chunker{codec: codec, maxTokens: maxTokens}
}

// Chunk walks the document in order and emits chunks for user-role messages
// only. Other roles survive solely as preceding-turn context. Sibling chunks
// cut from the same message form a doubly linked list; links never cross
// message boundaries.
func (c *Chunker) Chunk(doc commonModels.ConversationDocument) []commonModels.Chunk {
	var all []commonModels.Chunk
	seq := 0

	for _, conv := range doc.Conversations {
		for msgIdx, msg := range conv.Messages {
			if msg.Role != commonModels.RoleUser || strings.TrimSpace(msg.Content) == "" {
				continue
			}

			precedingText, precedingRole := precedingTurn(conv.Messages, msgIdx)

			windows := c.splitWindows(msg.Content)
			if len(windows) == 0 {
				continue
			}

			siblings := make([]commonModels.Chunk, 0, len(windows))
			for i, text := range windows {
				siblings = append(siblings, commonModels.Chunk{
					ChunkID:           fmt.Sprintf("%s-%d", doc.DocumentID, seq),
					Role:              msg.Role,
					Text:              text,
					DocumentID:        doc.DocumentID,
					ConversationID:    conv.ID,
					ConversationTitle: conv.Title,
					PrecedingTurnText: precedingText,
					PrecedingTurnRole: precedingRole,
					ChunkIndex:        i,
					TotalChunks:       len(windows),
					CreatedAt:         msg.Timestamp,
				})
				seq++
			}

			for i := range siblings {
				if i > 0 {
					siblings[i].PrevChunkID = siblings[i-1].ChunkID
				}
				if i < len(siblings)-1 {
					siblings[i].NextChunkID = siblings[i+1].ChunkID
				}
			}

			all = append(all, siblings...)
		}
	}

	return all
}

// splitWindows cuts the message into consecutive windows of at most maxTokens
// tokens. Windows that decode to pure whitespace are dropped before ids are
// assigned, so linkage stays a simple chain.
func (c *Chunker) splitWindows(content string) []string {
	tokens := c.codec.Encode(content)
	if len(tokens) <= c.maxTokens {
		return []string{content}
	}

	var windows []string
	for start := 0; start < len(tokens); start += c.maxTokens {
		end := start + c.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		text := c.codec.Decode(tokens[start:end])
		if strings.TrimSpace(text) == "" {
			continue
		}
		windows = append(windows, text)
	}
	return windows
}

// precedingTurn finds the nearest message strictly before index idx whose role
// differs from the message at idx. The "question" a user answer responds to.
func precedingTurn(messages []commonModels.Message, idx int) (string, commonModels.Role) {
	for i := idx - 1; i >= 0; i-- {
		if messages[i].Role != messages[idx].Role {
			return messages[i].Content, messages[i].Role
		}
	}
	return "", ""
}
