package model

import "time"

// Snapshot is the full-data export document. Every section is optional on
// import; nil sections are skipped.
type Snapshot struct {
	Signatures []Signature `json:"signatures"`
	Batches    []Batch     `json:"batches"`
	Metrics    *Metrics    `json:"metrics"`
	UserPrefs  *UserPrefs  `json:"userPrefs"`
	ExportedAt time.Time   `json:"exportedAt"`
}
