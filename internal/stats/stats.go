// internal/stats/stats.go

// Package stats computes token accounting over assembled turns.
package stats

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/weft/internal/types"
)

// TurnStats is the token breakdown for one turn.
type TurnStats struct {
	TurnID          string `json:"turn_id"`
	Events          int    `json:"events"`
	UserTokens      int    `json:"user_tokens"`
	TextTokens      int    `json:"text_tokens"`
	ThinkingTokens  int    `json:"thinking_tokens"`
	ToolInputTokens int    `json:"tool_input_tokens"`
	ResultTokens    int    `json:"result_tokens"`
	Total           int    `json:"total"`
}

// Counter counts tokens with the tokenizer for a given model.
type Counter struct {
	tokenizer *tiktoken.Tiktoken
}

// NewCounter creates a Counter for the given model, falling back to
// cl100k_base for unknown models.
func NewCounter(model string) (*Counter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &Counter{tokenizer: enc}, nil
}

func (c *Counter) count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.tokenizer.Encode(text, nil, nil))
}

// Turn computes the token breakdown for one turn.
func (c *Counter) Turn(t *types.Turn) TurnStats {
	s := TurnStats{TurnID: t.ID}

	if t.UserMessage != nil {
		s.UserTokens = c.count(t.UserMessage.Content)
		s.Events++
	}
	for _, ev := range t.ResponseEvents {
		s.Events++
		switch ev.Kind {
		case types.KindText:
			s.TextTokens += c.count(ev.Content)
		case types.KindThinking:
			s.ThinkingTokens += c.count(ev.Content)
		case types.KindToolUse:
			s.ToolInputTokens += c.count(fmt.Sprint(ev.ToolInput))
		}
	}
	for _, res := range t.ToolResults {
		s.Events++
		s.ResultTokens += c.count(res.Content)
	}

	s.Total = s.UserTokens + s.TextTokens + s.ThinkingTokens + s.ToolInputTokens + s.ResultTokens
	return s
}

// Turns computes per-turn stats and the grand total.
func (c *Counter) Turns(turns []*types.Turn) ([]TurnStats, int) {
	out := make([]TurnStats, 0, len(turns))
	total := 0
	for _, t := range turns {
		s := c.Turn(t)
		out = append(out, s)
		total += s.Total
	}
	return out, total
}
