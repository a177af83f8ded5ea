package chunker

import (
	"reflect"
	"strings"
	"testing"

	"github.com/careermate/PersonaAPI/internal/domain/commonModels"
)

// wordCodec treats every whitespace-separated word as one token. Cheap and
// deterministic, which is all the chunker needs from a codec.
type wordCodec struct {
	words []string
	index map[string]int
}

func newWordCodec() *wordCodec {
	return &wordCodec{index: make(map[string]int)}
}

func (c *wordCodec) Encode(text string) []int {
	var ids []int
	for _, w := range strings.Fields(text) {
		id, ok := c.index[w]
		if !ok {
			id = len(c.words)
			c.words = append(c.words, w)
			c.index[w] = id
		}
		ids = append(ids, id)
	}
	return ids
}

func (c *wordCodec) Decode(tokens []int) string {
	parts := make([]string, 0, len(tokens))
	for _, id := range tokens {
		parts = append(parts, c.words[id])
	}
	return strings.Join(parts, " ")
}

func repeatWords(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "w" + string(rune('a'+i%26))
	}
	return strings.Join(parts, " ")
}

func singleUserDoc(content string) commonModels.ConversationDocument {
	return commonModels.ConversationDocument{
		DocumentID: "doc-1",
		Conversations: []commonModels.Conversation{
			{
				ID:    "conv-1",
				Title: "test conversation",
				Messages: []commonModels.Message{
					{Role: commonModels.RoleUser, Content: content},
				},
			},
		},
	}
}

func TestChunk_ShortMessageSingleChunk(t *testing.T) {
	c := New(newWordCodec(), 400)

	chunks := c.Chunk(singleUserDoc("hello there how are you"))

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	got := chunks[0]
	if got.ChunkID != "doc-1-0" {
		t.Errorf("ChunkID got %s, want doc-1-0", got.ChunkID)
	}
	if got.TotalChunks != 1 || got.ChunkIndex != 0 {
		t.Errorf("index/total got %d/%d, want 0/1", got.ChunkIndex, got.TotalChunks)
	}
	if got.PrevChunkID != "" || got.NextChunkID != "" {
		t.Errorf("single chunk must not be linked: %+v", got)
	}
	if got.Text != "hello there how are you" {
		t.Errorf("short message text must pass through untouched, got %q", got.Text)
	}
}

func TestChunk_TokenWindowPartitioning(t *testing.T) {
	codec := newWordCodec()
	c := New(codec, 400)

	chunks := c.Chunk(singleUserDoc(repeatWords(1000)))

	if len(chunks) != 3 {
		t.Fatalf("1000 tokens at 400/window must yield 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.TotalChunks != 3 {
			t.Errorf("chunk %d TotalChunks got %d, want 3", i, chunk.TotalChunks)
		}
		if chunk.ChunkIndex != i {
			t.Errorf("chunk %d ChunkIndex got %d", i, chunk.ChunkIndex)
		}
		if n := len(codec.Encode(chunk.Text)); n > 400 {
			t.Errorf("chunk %d has %d tokens, exceeds window", i, n)
		}
	}

	// linkage: 0 -> 1 -> 2, null at both ends
	if chunks[0].PrevChunkID != "" || chunks[2].NextChunkID != "" {
		t.Error("chain ends must be unlinked")
	}
	for i := 0; i < len(chunks)-1; i++ {
		if chunks[i].NextChunkID != chunks[i+1].ChunkID {
			t.Errorf("chunk %d NextChunkID got %s, want %s", i, chunks[i].NextChunkID, chunks[i+1].ChunkID)
		}
		if chunks[i+1].PrevChunkID != chunks[i].ChunkID {
			t.Errorf("chunk %d PrevChunkID got %s, want %s", i+1, chunks[i+1].PrevChunkID, chunks[i].ChunkID)
		}
	}
}

func TestChunk_Deterministic(t *testing.T) {
	doc := commonModels.ConversationDocument{
		DocumentID: "doc-9",
		Conversations: []commonModels.Conversation{
			{
				ID: "conv-1",
				Messages: []commonModels.Message{
					{Role: commonModels.RoleAssistant, Content: "what did you build?"},
					{Role: commonModels.RoleUser, Content: repeatWords(900)},
					{Role: commonModels.RoleUser, Content: "a smaller answer"},
				},
			},
		},
	}

	first := New(newWordCodec(), 400).Chunk(doc)
	second := New(newWordCodec(), 400).Chunk(doc)

	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same document must produce identical chunks")
	}
}

func TestChunk_FiltersNonUserAndEmpty(t *testing.T) {
	doc := commonModels.ConversationDocument{
		DocumentID: "doc-2",
		Conversations: []commonModels.Conversation{
			{
				ID: "conv-1",
				Messages: []commonModels.Message{
					{Role: commonModels.RoleSystem, Content: "system preamble"},
					{Role: commonModels.RoleAssistant, Content: "assistant turn"},
					{Role: commonModels.RoleUser, Content: "   \n\t "},
					{Role: commonModels.RoleUser, Content: "real user text"},
				},
			},
		},
	}

	chunks := New(newWordCodec(), 400).Chunk(doc)

	if len(chunks) != 1 {
		t.Fatalf("only the non-empty user message may chunk, got %d chunks", len(chunks))
	}
	if chunks[0].Text != "real user text" {
		t.Errorf("unexpected chunk text %q", chunks[0].Text)
	}
}

func TestChunk_PrecedingTurn(t *testing.T) {
	doc := commonModels.ConversationDocument{
		DocumentID: "doc-3",
		Conversations: []commonModels.Conversation{
			{
				ID: "conv-1",
				Messages: []commonModels.Message{
					{Role: commonModels.RoleUser, Content: "opening question"},
					{Role: commonModels.RoleAssistant, Content: "assistant reply"},
					{Role: commonModels.RoleUser, Content: "follow up"},
				},
			},
		},
	}

	chunks := New(newWordCodec(), 400).Chunk(doc)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].PrecedingTurnText != "" {
		t.Errorf("first message has no preceding turn, got %q", chunks[0].PrecedingTurnText)
	}
	if chunks[1].PrecedingTurnText != "assistant reply" || chunks[1].PrecedingTurnRole != commonModels.RoleAssistant {
		t.Errorf("follow up must anchor to the assistant reply, got %q (%s)",
			chunks[1].PrecedingTurnText, chunks[1].PrecedingTurnRole)
	}
}

func TestChunk_NoCrossMessageLinks(t *testing.T) {
	doc := commonModels.ConversationDocument{
		DocumentID: "doc-4",
		Conversations: []commonModels.Conversation{
			{
				ID: "conv-1",
				Messages: []commonModels.Message{
					{Role: commonModels.RoleUser, Content: repeatWords(500)},
					{Role: commonModels.RoleUser, Content: repeatWords(500)},
				},
			},
		},
	}

	chunks := New(newWordCodec(), 400).Chunk(doc)

	if len(chunks) != 4 {
		t.Fatalf("expected 2 chunks per message, got %d total", len(chunks))
	}
	if chunks[1].NextChunkID != "" {
		t.Errorf("last chunk of first message must not link into second message, got %s", chunks[1].NextChunkID)
	}
	if chunks[2].PrevChunkID != "" {
		t.Errorf("first chunk of second message must not link back, got %s", chunks[2].PrevChunkID)
	}
}
