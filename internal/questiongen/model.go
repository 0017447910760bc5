package questiongen

import "github.com/abhisek/mockexam/internal/llm"

// chooseModel prefers the first generation-capable model in the fast tier,
// falling back to the first generation-capable model of any tier.
func chooseModel(models []llm.ModelInfo) (llm.ModelInfo, bool) {
	for _, m := range models {
		if m.Generative && m.Fast {
			return m, true
		}
	}
	for _, m := range models {
		if m.Generative {
			return m, true
		}
	}
	return llm.ModelInfo{}, false
}
