package store

import (
	"context"
	"math"

	"github.com/sells-group/signature-cli/internal/model"
)

// Confidence band lower bounds, in percent.
const (
	HighConfidence   = 90.0
	MediumConfidence = 70.0
)

var trendDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// SaveMetrics writes m with LastUpdated set to now.
func (s *Store) SaveMetrics(ctx context.Context, m model.Metrics) (model.Metrics, error) {
	now := s.now()
	m.LastUpdated = &now
	if m.AccuracyTrends == nil {
		m.AccuracyTrends = []model.TrendPoint{}
	}
	if err := writeJSON(ctx, s, s.metricsKey(), m); err != nil {
		return m, err
	}
	return m, nil
}

// GetMetrics returns the stored metrics or model.DefaultMetrics when absent
// or undecodable.
func (s *Store) GetMetrics(ctx context.Context) (model.Metrics, error) {
	l, err := readJSON[model.Metrics](ctx, s, s.metricsKey())
	if err != nil {
		return model.Metrics{}, err
	}
	if l.State != Found {
		return model.DefaultMetrics(), nil
	}
	return l.Value, nil
}

// RecalculateMetrics rebuilds the confidence distribution from all stored
// signatures, draws a fresh synthetic seven-day trend series, saves the
// result and returns it.
//
// The trend series is random on every call; it is not derived from history.
func (s *Store) RecalculateMetrics(ctx context.Context) (model.Metrics, error) {
	sigs, err := s.GetAllSignatures(ctx)
	if err != nil {
		return model.Metrics{}, err
	}
	m := model.Metrics{
		ConfidenceDistribution: Distribution(sigs),
		AccuracyTrends:         s.syntheticTrends(),
	}
	return s.SaveMetrics(ctx, m)
}

// Distribution returns the percentage of sigs in each confidence band,
// rounded to one decimal. An empty slice yields all zeros.
func Distribution(sigs []model.Signature) model.ConfidenceDistribution {
	var high, medium, low int
	for _, sig := range sigs {
		switch {
		case sig.Confidence >= HighConfidence:
			high++
		case sig.Confidence >= MediumConfidence:
			medium++
		default:
			low++
		}
	}
	total := float64(max(len(sigs), 1))
	return model.ConfidenceDistribution{
		High:   round1(float64(high) / total * 100),
		Medium: round1(float64(medium) / total * 100),
		Low:    round1(float64(low) / total * 100),
	}
}

func (s *Store) syntheticTrends() []model.TrendPoint {
	points := make([]model.TrendPoint, len(trendDays))
	for i, day := range trendDays {
		points[i] = model.TrendPoint{
			Day:       day,
			Authentic: float64(80 + s.intN(20)),
			Forged:    float64(5 + s.intN(10)),
		}
	}
	return points
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
