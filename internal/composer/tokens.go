package composer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter measures text in model tokens.
type TokenCounter interface {
	Count(text string) int
}

// HeuristicCounter approximates tokens at four bytes per token.
type HeuristicCounter struct{}

func (HeuristicCounter) Count(text string) int {
	return EstimateTokens(text)
}

// EstimateTokens provides a rough token count using 4 chars per token heuristic.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// TikTokenCounter counts tokens with a tiktoken encoding. The first use of
// an encoding fetches its BPE ranks unless a local cache is configured via
// TIKTOKEN_CACHE_DIR.
type TikTokenCounter struct {
	tke *tiktoken.Tiktoken
}

func NewTikTokenCounter(encoding string) (*TikTokenCounter, error) {
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("loading %s encoding: %w", encoding, err)
	}
	return &TikTokenCounter{tke: tke}, nil
}

func (c *TikTokenCounter) Count(text string) int {
	return len(c.tke.Encode(text, nil, nil))
}

// NewTokenCounter resolves a tokenizer name. Empty and "heuristic" select
// HeuristicCounter; anything else is treated as a tiktoken encoding.
func NewTokenCounter(name string) (TokenCounter, error) {
	if name == "" || name == "heuristic" {
		return HeuristicCounter{}, nil
	}
	return NewTikTokenCounter(name)
}
