package intent

import (
	"context"
	"log/slog"
)

// DefaultThreshold is the minimum heuristic confidence accepted without
// asking the fallback recognizer.
const DefaultThreshold = 0.7

type classifierOptions struct {
	threshold float64
	fallback  Recognizer
}

type ClassifierOption func(*classifierOptions)

func WithThreshold(threshold float64) ClassifierOption {
	return func(o *classifierOptions) {
		if threshold > 0 {
			o.threshold = threshold
		}
	}
}

// WithFallback sets the recognizer consulted when the heuristic result is
// below the threshold. Without one the heuristic result is always returned.
func WithFallback(r Recognizer) ClassifierOption {
	return func(o *classifierOptions) {
		o.fallback = r
	}
}

// Classifier runs the pattern heuristic first and only escalates low
// confidence results.
type Classifier struct {
	threshold float64
	fallback  Recognizer
}

func NewClassifier(opts ...ClassifierOption) *Classifier {
	o := classifierOptions{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&o)
	}
	return &Classifier{threshold: o.threshold, fallback: o.fallback}
}

func (c *Classifier) Recognize(ctx context.Context, req *Request) (Result, error) {
	result := Classify(req.Message)
	if result.Confidence >= c.threshold || c.fallback == nil {
		return result, nil
	}
	modelResult, err := c.fallback.Recognize(ctx, req)
	if err != nil {
		slog.Warn("Intent fallback failed, using heuristic", "error", err, "intent", result.Intent)
		return result, nil
	}
	slog.Debug("Intent from fallback", "heuristic", result.Intent, "model", modelResult.Intent)
	return modelResult, nil
}
