package llm

import (
	"math"
	"strings"
)

// modelLimits holds the context window and maximum output budget for a model.
type modelLimits struct {
	contextWindow int
	maxOutput     int
}

// knownModels lists limits for the models scribe is commonly configured with.
// Unknown models fall back to conservative defaults.
var knownModels = map[string]modelLimits{
	"gpt-4o":                     {contextWindow: 128000, maxOutput: 16384},
	"gpt-4o-mini":                {contextWindow: 128000, maxOutput: 16384},
	"gpt-4-turbo":                {contextWindow: 128000, maxOutput: 4096},
	"gpt-4":                      {contextWindow: 8192, maxOutput: 4096},
	"gpt-3.5-turbo":              {contextWindow: 16385, maxOutput: 4096},
	"claude-sonnet-4-20250514":   {contextWindow: 200000, maxOutput: 64000},
	"claude-3-7-sonnet-20250219": {contextWindow: 200000, maxOutput: 64000},
	"claude-3-5-sonnet-20241022": {contextWindow: 200000, maxOutput: 8192},
	"claude-3-5-haiku-20241022":  {contextWindow: 200000, maxOutput: 8192},
}

var defaultLimits = modelLimits{contextWindow: 8192, maxOutput: 4096}

// tokenOverheadFactor inflates the word count to approximate subword tokens.
const tokenOverheadFactor = 1.35

// safetyMargin keeps the prompt estimate from eating the whole window.
const safetyMargin = 256

// EstimateTokens approximates the token count of text. No tokenizer table is
// shipped, so this is a word-count heuristic with a fixed overhead factor.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) * tokenOverheadFactor))
}

// BudgetTokens returns the max_tokens value for a request: the model's max
// output capped by what remains of the context window after the estimated
// prompt and a safety margin, floored at 1.
func BudgetTokens(model string, promptTokens int) int {
	limits, ok := knownModels[model]
	if !ok {
		limits = defaultLimits
	}

	remaining := limits.contextWindow - promptTokens - safetyMargin
	budget := limits.maxOutput
	if remaining < budget {
		budget = remaining
	}
	if budget < 1 {
		budget = 1
	}
	return budget
}
