package tokenizer

import (
	"fmt"

	"github.com/careermate/PersonaAPI/internal/config"
	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer is the token codec the chunker partitions text with. The
// production implementation wraps tiktoken's cl100k_base encoding; tests
// substitute a cheap one.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenCodec struct {
	enc *tiktoken.Tiktoken
}

func NewTiktoken() (Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(config.TokenizerEncoding)
	if err != nil {
		return nil, fmt.Errorf("loading %s encoding: %w", config.TokenizerEncoding, err)
	}
	return &tiktokenCodec{enc: enc}, nil
}

func (t *tiktokenCodec) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t *tiktokenCodec) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}
