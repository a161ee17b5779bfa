package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

var errNilEncoding = errors.New("tiktoken encoding is not initialized")

// openAICounter counts tokens with a tiktoken BPE encoding.
type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter openAICounter) Name() string {
	return counter.name
}

// CountString encodes input with special tokens treated as ordinary text.
func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errNilEncoding
	}
	return len(counter.encoding.EncodeOrdinary(input)), nil
}
