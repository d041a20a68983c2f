package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_RoundTripWithExtra(t *testing.T) {
	raw := `{"id":"#12345","name":"Q1 contracts","totalSignatures":4,"verified":2,"processing":1,"forgeries":1,
		"createdDate":"2024-02-01T00:00:00Z","lastModified":"2024-02-02T00:00:00Z","owner":"ops"}`

	var b Batch
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	assert.Equal(t, "#12345", b.ID)
	assert.Equal(t, 4, b.TotalSignatures)
	assert.Equal(t, json.RawMessage(`"ops"`), b.Extra["owner"])

	out, err := json.Marshal(b)
	require.NoError(t, err)

	var again Batch
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, b, again)
}

func TestDefaultMetrics_EncodesEmptyTrends(t *testing.T) {
	out, err := json.Marshal(DefaultMetrics())
	require.NoError(t, err)
	assert.JSONEq(t, `{"confidenceDistribution":{"high":0,"medium":0,"low":0},"accuracyTrends":[]}`, string(out))
}

func TestMetrics_NullTrendsDecodeEmpty(t *testing.T) {
	var m Metrics
	require.NoError(t, json.Unmarshal([]byte(`{"confidenceDistribution":{"high":50,"medium":25,"low":25},"accuracyTrends":null}`), &m))
	assert.NotNil(t, m.AccuracyTrends)
	assert.Empty(t, m.AccuracyTrends)
	assert.Nil(t, m.LastUpdated)
}

func TestMetrics_RoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := Metrics{
		ConfidenceDistribution: ConfidenceDistribution{High: 33.3, Medium: 33.3, Low: 33.3},
		AccuracyTrends:         []TrendPoint{{Day: "Mon", Authentic: 92.1, Forged: 7.9}},
		LastUpdated:            &ts,
	}
	out, err := json.Marshal(m)
	require.NoError(t, err)

	var again Metrics
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, m, again)
}

func TestDefaultUserPrefs(t *testing.T) {
	out, err := json.Marshal(DefaultUserPrefs())
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"light","defaultView":"grid","itemsPerPage":10,"autoSave":true,"notifications":true}`, string(out))
}

func TestUserPrefs_PreservesUnknown(t *testing.T) {
	var p UserPrefs
	require.NoError(t, json.Unmarshal([]byte(`{"theme":"dark","defaultView":"list","itemsPerPage":25,"autoSave":false,"notifications":true,"language":"fr"}`), &p))
	assert.Equal(t, "dark", p.Theme)
	assert.False(t, p.AutoSave)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"language":"fr"`)
}

func TestExtra_GetSet(t *testing.T) {
	var e Extra
	ok, err := e.Get("missing", new(string))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, e.Set("count", 3))
	var n int
	ok, err = e.Get("count", &n)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	var s string
	ok, err = e.Get("count", &s)
	assert.True(t, ok)
	assert.Error(t, err)
}
