// Package tokenizer estimates the token count of an assembled prompt.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	errorFallbackEncodingFormat = "initialize fallback tokenizer: %w"
)

var openAIModelPrefixes = []string{
	"gpt-",
	"o1",
	"o3",
	"text-embedding",
	"davinci",
	"curie",
	"babbage",
	"ada",
	"code-",
}

// NewCounter returns a tiktoken counter for the requested model and the name of the encoding in use.
// Models without a known encoding fall back to cl100k_base.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	lowerModel := strings.ToLower(model)

	if isOpenAIModel(lowerModel) {
		encoding, encodingError := tiktoken.EncodingForModel(lowerModel)
		if encodingError == nil && encoding != nil {
			return openAICounter{encoding: encoding, name: lowerModel}, model, nil
		}
	}
	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf(errorFallbackEncodingFormat, fallbackError)
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

func isOpenAIModel(model string) bool {
	for _, prefix := range openAIModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
