package token

import "strings"

// modelPrice holds USD prices per 1000 tokens.
type modelPrice struct {
	prompt     float64
	completion float64
}

// Known OpenAI model prices. Lookup falls back to the longest matching
// prefix so dated snapshots (e.g. gpt-4o-2024-08-06) resolve to their family.
var modelPrices = map[string]modelPrice{
	"gpt-4o":            {prompt: 0.005, completion: 0.015},
	"gpt-4o-mini":       {prompt: 0.00015, completion: 0.0006},
	"gpt-4":             {prompt: 0.03, completion: 0.06},
	"gpt-4-32k":         {prompt: 0.06, completion: 0.12},
	"gpt-4-turbo":       {prompt: 0.01, completion: 0.03},
	"gpt-3.5-turbo":     {prompt: 0.0005, completion: 0.0015},
	"gpt-3.5-turbo-16k": {prompt: 0.003, completion: 0.004},
}

// costForModel returns the USD cost for the given token count. The second
// return value is false when the model has no known price.
func costForModel(model string, tokens int, completion bool) (float64, bool) {
	price, ok := modelPrices[model]
	if !ok {
		best := ""
		for name := range modelPrices {
			if strings.HasPrefix(model, name) && len(name) > len(best) {
				best = name
			}
		}
		if best == "" {
			return 0, false
		}
		price = modelPrices[best]
	}

	per1k := price.prompt
	if completion {
		per1k = price.completion
	}
	return float64(tokens) / 1000 * per1k, true
}
