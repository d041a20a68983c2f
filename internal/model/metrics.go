package model

import (
	"encoding/json"
	"time"
)

// ConfidenceDistribution holds percentage shares of signatures per
// confidence band: high >= 90, medium in [70, 90), low < 70.
type ConfidenceDistribution struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
	Low    float64 `json:"low"`
}

// TrendPoint is one day of the accuracy trend series.
type TrendPoint struct {
	Day       string  `json:"day"`
	Authentic float64 `json:"authentic"`
	Forged    float64 `json:"forged"`
}

// Metrics is the singleton aggregate over all stored signatures.
type Metrics struct {
	ConfidenceDistribution ConfidenceDistribution `json:"confidenceDistribution"`
	AccuracyTrends         []TrendPoint           `json:"accuracyTrends"`
	LastUpdated            *time.Time             `json:"lastUpdated,omitempty"`
	Extra                  Extra                  `json:"-"`
}

// DefaultMetrics is returned when no metrics record has been saved.
func DefaultMetrics() Metrics {
	return Metrics{AccuracyTrends: []TrendPoint{}}
}

var metricsFields = []string{"confidenceDistribution", "accuracyTrends", "lastUpdated"}

type metricsJSON Metrics

// MarshalJSON encodes the modeled fields plus any preserved extras.
func (m Metrics) MarshalJSON() ([]byte, error) {
	if m.AccuracyTrends == nil {
		m.AccuracyTrends = []TrendPoint{}
	}
	out, err := json.Marshal(metricsJSON(m))
	if err != nil {
		return nil, err
	}
	return mergeExtra(out, m.Extra)
}

// UnmarshalJSON decodes the modeled fields and keeps the rest in Extra.
func (m *Metrics) UnmarshalJSON(data []byte) error {
	var v metricsJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, metricsFields)
	if err != nil {
		return err
	}
	v.Extra = extra
	if v.AccuracyTrends == nil {
		v.AccuracyTrends = []TrendPoint{}
	}
	*m = Metrics(v)
	return nil
}
