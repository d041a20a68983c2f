package predict

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MatchSimilarity is the similarity score, in percent, above which two
// genuine signatures are considered a match.
const MatchSimilarity = 85.0

// Fallback wraps a Client and substitutes synthesized results whenever the
// wrapped call fails. Its methods never return an error except for context
// cancellation.
type Fallback struct {
	next Client
	now  func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

var _ Client = (*Fallback)(nil)

// FallbackOption configures a Fallback.
type FallbackOption func(*Fallback)

// WithFallbackRand seeds synthesized results.
func WithFallbackRand(src rand.Source) FallbackOption {
	return func(f *Fallback) { f.rng = rand.New(src) }
}

// WithFallbackClock overrides the timestamp source.
func WithFallbackClock(now func() time.Time) FallbackOption {
	return func(f *Fallback) { f.now = now }
}

// NewFallback wraps next.
func NewFallback(next Client, opts ...FallbackOption) *Fallback {
	f := &Fallback{
		next: next,
		now:  time.Now,
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fallback) Predict(ctx context.Context, img Image) (*Prediction, error) {
	p, err := f.next.Predict(ctx, img)
	if err == nil {
		return p, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	zap.L().Warn("predict: service unavailable, using mock prediction",
		zap.String("file", img.FileName),
		zap.Error(err),
	)
	mock := f.mockPrediction()
	return &mock, nil
}

func (f *Fallback) Verify(ctx context.Context, reference, test Image) (*Verification, error) {
	v, err := f.next.Verify(ctx, reference, test)
	if err == nil {
		return v, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	zap.L().Warn("predict: service unavailable, using mock verification", zap.Error(err))
	out := Compare(f.mockPrediction(), f.mockPrediction())
	out.Timestamp = f.timestamp()
	out.Mock = true
	return &out, nil
}

func (f *Fallback) Health(ctx context.Context) (*Health, error) {
	h, err := f.next.Health(ctx)
	if err == nil {
		return h, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	zap.L().Debug("predict: health check failed", zap.Error(err))
	return &Health{Status: "unavailable", Timestamp: f.timestamp()}, nil
}

func (f *Fallback) ModelInfo(ctx context.Context) (ModelInfo, error) {
	info, err := f.next.ModelInfo(ctx)
	if err == nil {
		return info, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return ModelInfo{"status": "unavailable", "message": err.Error()}, nil
}

func (f *Fallback) ReloadModel(ctx context.Context) (*ReloadResult, error) {
	r, err := f.next.ReloadModel(ctx)
	if err == nil {
		return r, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return &ReloadResult{Status: "failed", Message: err.Error()}, nil
}

func (f *Fallback) mockPrediction() Prediction {
	f.mu.Lock()
	p := f.rng.Float64()
	f.mu.Unlock()
	return NewPrediction(p, DefaultThreshold, f.timestamp(), true)
}

func (f *Fallback) timestamp() string {
	return f.now().Format(time.RFC3339)
}

// NewPrediction builds a Prediction from a genuine probability the same way
// the service does: label by threshold, confidence in percent rounded to
// two decimals, probabilities rounded to four.
func NewPrediction(prob, threshold float64, timestamp string, mock bool) Prediction {
	label := LabelForged
	if prob >= threshold {
		label = LabelGenuine
	}
	return Prediction{
		Prediction:  label,
		Confidence:  roundTo(prob*100, 2),
		Probability: roundTo(prob, 4),
		Threshold:   threshold,
		Details: Details{
			GenuineProbability: roundTo(prob, 4),
			ForgedProbability:  roundTo(1-prob, 4),
		},
		Timestamp: timestamp,
		Mock:      mock,
	}
}

// Compare derives a verification from two predictions. Similarity is
// 100 minus the confidence gap; the pair matches when both are genuine and
// similarity exceeds MatchSimilarity.
func Compare(reference, test Prediction) Verification {
	similarity := 100 - math.Abs(reference.Confidence-test.Confidence)
	match := reference.Genuine() && test.Genuine() && similarity > MatchSimilarity
	verdict := VerdictRejected
	if match {
		verdict = VerdictVerified
	}
	return Verification{
		Match:           match,
		SimilarityScore: roundTo(similarity, 2),
		Reference:       ImageVerdict{Prediction: reference.Prediction, Confidence: reference.Confidence},
		Test:            ImageVerdict{Prediction: test.Prediction, Confidence: test.Confidence},
		Verdict:         verdict,
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
