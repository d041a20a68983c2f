package predict_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/signature-cli/pkg/predict"
	"github.com/sells-group/signature-cli/pkg/predict/mocks"
)

var errDown = errors.New("connection refused")

func newFallback(t *testing.T) (*predict.Fallback, *mocks.MockClient) {
	t.Helper()
	m := mocks.NewMockClient(t)
	f := predict.NewFallback(m,
		predict.WithFallbackRand(rand.NewPCG(7, 7)),
		predict.WithFallbackClock(func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) }),
	)
	return f, m
}

func TestFallback_PassesThrough(t *testing.T) {
	f, m := newFallback(t)
	want := predict.NewPrediction(0.9, predict.DefaultThreshold, "ts", false)
	m.On("Predict", mock.Anything, mock.Anything).Return(&want, nil).Once()

	got, err := f.Predict(context.Background(), predict.Image{FileName: "a.png"})
	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestFallback_PredictMock(t *testing.T) {
	f, m := newFallback(t)
	m.On("Predict", mock.Anything, mock.Anything).Return(nil, errDown)

	for i := 0; i < 20; i++ {
		got, err := f.Predict(context.Background(), predict.Image{})
		require.NoError(t, err)
		assert.True(t, got.Mock)
		assert.Contains(t, []string{predict.LabelGenuine, predict.LabelForged}, got.Prediction)
		assert.GreaterOrEqual(t, got.Confidence, 0.0)
		assert.LessOrEqual(t, got.Confidence, 100.0)
		assert.InDelta(t, 1.0, got.Details.GenuineProbability+got.Details.ForgedProbability, 0.0002)
		assert.Equal(t, "2024-03-15T00:00:00Z", got.Timestamp)
	}
}

func TestFallback_VerifyMock(t *testing.T) {
	f, m := newFallback(t)
	m.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(nil, errDown)

	got, err := f.Verify(context.Background(), predict.Image{}, predict.Image{})
	require.NoError(t, err)
	assert.True(t, got.Mock)
	assert.Contains(t, []string{predict.VerdictVerified, predict.VerdictRejected}, got.Verdict)
	assert.Equal(t, got.Match, got.Verdict == predict.VerdictVerified)
}

func TestFallback_ServiceOps(t *testing.T) {
	f, m := newFallback(t)
	ctx := context.Background()
	m.On("Health", mock.Anything).Return(nil, errDown)
	m.On("ModelInfo", mock.Anything).Return(nil, errDown)
	m.On("ReloadModel", mock.Anything).Return(nil, errDown)

	h, err := f.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "unavailable", h.Status)
	assert.False(t, h.ModelLoaded)

	info, err := f.ModelInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "unavailable", info["status"])

	r, err := f.ReloadModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "failed", r.Status)
	assert.Equal(t, errDown.Error(), r.Message)
}

func TestFallback_ContextCanceled(t *testing.T) {
	f, m := newFallback(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.On("Predict", mock.Anything, mock.Anything).Return(nil, context.Canceled)

	_, err := f.Predict(ctx, predict.Image{})
	assert.ErrorIs(t, err, context.Canceled)
}
