package gather

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// tiktokenModel is the encoding used for the GPT family.
const tiktokenModel = "gpt-4o"

// modelRule drives the heuristic estimator for families without a local
// tokenizer: the average of a character-based and a word-based guess, scaled
// by an encoding overhead.
type modelRule struct {
	charsPerToken    float64
	wordMultiplier   float64
	encodingOverhead float64
}

var modelRules = map[string]modelRule{
	"claude-4-sonnet":   {3.4, 1.24, 1.02},
	"claude-3-7-sonnet": {3.5, 1.25, 1.03},
	"claude-3-5-sonnet": {3.5, 1.25, 1.03},
	"gpt-4o":            {3.8, 1.30, 1.05},
	"gpt-4-turbo":       {3.8, 1.30, 1.05},
	"gpt-4.1":           {3.7, 1.28, 1.04},
	"gpt-3.5-turbo":     {3.8, 1.30, 1.05},
	"gemini-2-5-pro":    {3.8, 1.30, 1.05},
	"gemini-2-5-flash":  {4.2, 1.40, 1.08},
	"grok-3":            {3.6, 1.26, 1.03},
	"deepseek-r1":       {3.7, 1.28, 1.04},
}

// pricing is USD per 1K tokens. Cost display is an aid, not an invoice.
var pricing = map[string]struct{ inPer1K, outPer1K float64 }{
	"gpt-4o":            {0.0025, 0.01},
	"gpt-4-turbo":       {0.01, 0.03},
	"gpt-3.5-turbo":     {0.0005, 0.0015},
	"claude-4-sonnet":   {0.003, 0.015},
	"claude-3-5-sonnet": {0.003, 0.015},
	"gemini-2-5-pro":    {0.00125, 0.01},
}

var wordPattern = regexp.MustCompile(`\b\w+\b|[^\w\s]`)

// Estimator computes approximate token counts per model family. It never
// gates processing: when the BPE encoding cannot be loaded, every family
// degrades to the character heuristic.
type Estimator struct {
	enc     *tiktoken.Tiktoken
	encOnce sync.Once
	logger  *zap.Logger
}

// NewEstimator returns an estimator. The GPT-family BPE encoding is loaded
// lazily on first use; load failure is logged and tolerated.
func NewEstimator(logger *zap.Logger) *Estimator {
	return &Estimator{logger: logger}
}

func (e *Estimator) encoding() *tiktoken.Tiktoken {
	e.encOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel(tiktokenModel)
		if err != nil {
			e.logger.Warn("tokenizer unavailable, falling back to character heuristic", zap.Error(err))
			return
		}
		e.enc = enc
	})
	return e.enc
}

// Estimate returns an approximate token count per requested model. Counts
// are non-negative and non-decreasing in the input text.
func (e *Estimator) Estimate(text string, models []string) map[string]int {
	out := make(map[string]int, len(models))
	for _, model := range models {
		out[model] = e.estimateOne(text, model)
	}
	return out
}

func (e *Estimator) estimateOne(text, model string) int {
	if text == "" {
		return 0
	}
	if strings.HasPrefix(model, "gpt") {
		if enc := e.encoding(); enc != nil {
			return len(enc.EncodeOrdinary(text))
		}
	}
	rule, ok := modelRules[model]
	if !ok {
		// chars/4 is the classic rough guess.
		return len(text) / 4
	}
	charTokens := float64(len(text)) / rule.charsPerToken
	wordTokens := float64(len(wordPattern.FindAllString(text, -1))) * rule.wordMultiplier
	n := int((charTokens + wordTokens) / 2 * rule.encodingOverhead)
	if n < 1 {
		return 1
	}
	return n
}

// EstimateCost returns the estimated input+output cost in USD for a token
// count, assuming output is ~10% of input. ok is false for unpriced models.
func EstimateCost(tokens int, model string) (cost float64, ok bool) {
	p, ok := pricing[model]
	if !ok {
		return 0, false
	}
	inCost := float64(tokens) / 1000 * p.inPer1K
	outCost := float64(tokens) * 0.1 / 1000 * p.outPer1K
	return inCost + outCost, true
}

// FormatCost renders a dollar amount with precision scaled to its size.
func FormatCost(cost float64) string {
	switch {
	case cost < 0.01:
		return fmt.Sprintf("$%.4f", cost)
	case cost < 0.1:
		return fmt.Sprintf("$%.3f", cost)
	default:
		return fmt.Sprintf("$%.2f", cost)
	}
}
