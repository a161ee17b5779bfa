package tokenizer

import (
	"errors"

	"github.com/temirov/repoprompt/internal/utils"
)

var errNilCounter = errors.New("nil tokenizer counter")

// CountResult captures the outcome of counting a document.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountBytes estimates tokens for the provided data using counter.
// Data that is not text is reported as not counted.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errNilCounter
	}
	if utils.IsBinary(data) {
		return CountResult{Counted: false}, nil
	}
	tokens, countError := counter.CountString(string(data))
	if countError != nil {
		return CountResult{}, countError
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}

// CountDocument estimates tokens for an assembled prompt document.
func CountDocument(counter Counter, document string) (CountResult, error) {
	return CountBytes(counter, []byte(document))
}
