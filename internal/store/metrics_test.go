package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/signature-cli/internal/model"
)

func TestGetMetrics_DefaultWhenAbsent(t *testing.T) {
	s, _ := newTestStore(t)
	m, err := s.GetMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultMetrics(), m)
	assert.NotNil(t, m.AccuracyTrends)
}

func TestRecalculateMetrics_Empty(t *testing.T) {
	s, _ := newTestStore(t)
	m, err := s.RecalculateMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ConfidenceDistribution{}, m.ConfidenceDistribution)
	require.NotNil(t, m.LastUpdated)
	assert.Equal(t, fixedNow, *m.LastUpdated)
}

func TestRecalculateMetrics_EvenSplit(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	for _, c := range []float64{95, 85, 60} {
		_, err := s.SaveSignature(ctx, model.Signature{Confidence: c})
		require.NoError(t, err)
	}

	m, err := s.RecalculateMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ConfidenceDistribution{High: 33.3, Medium: 33.3, Low: 33.3}, m.ConfidenceDistribution)

	require.Len(t, m.AccuracyTrends, 7)
	assert.Equal(t, "Mon", m.AccuracyTrends[0].Day)
	assert.Equal(t, "Sun", m.AccuracyTrends[6].Day)
	for _, p := range m.AccuracyTrends {
		assert.GreaterOrEqual(t, p.Authentic, 80.0)
		assert.LessOrEqual(t, p.Authentic, 99.0)
		assert.GreaterOrEqual(t, p.Forged, 5.0)
		assert.LessOrEqual(t, p.Forged, 14.0)
	}

	stored, err := s.GetMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, m, stored)
}

func TestDistribution_BandEdges(t *testing.T) {
	sigs := []model.Signature{
		{Confidence: 90}, {Confidence: 89.99}, {Confidence: 70}, {Confidence: 69.9},
	}
	assert.Equal(t, model.ConfidenceDistribution{High: 25, Medium: 50, Low: 25}, Distribution(sigs))
}

func TestSaveMetrics_NormalizesNilTrends(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	m, err := s.SaveMetrics(ctx, model.Metrics{ConfidenceDistribution: model.ConfidenceDistribution{High: 100}})
	require.NoError(t, err)
	assert.NotNil(t, m.AccuracyTrends)

	got, err := s.GetMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.ConfidenceDistribution.High)
	assert.Empty(t, got.AccuracyTrends)
}
