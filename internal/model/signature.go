package model

import (
	"encoding/json"
	"time"
)

// Classification is the verdict attached to a signature image.
type Classification string

const (
	ClassificationAuthentic Classification = "Authentic"
	ClassificationForged    Classification = "Forged"
	ClassificationStylized  Classification = "Stylized"
)

// Valid reports whether c is one of the known classifications.
func (c Classification) Valid() bool {
	switch c {
	case ClassificationAuthentic, ClassificationForged, ClassificationStylized:
		return true
	default:
		return false
	}
}

// Signature status values stored in the opaque "status" field.
const (
	SignatureStatusVerified   = "verified"
	SignatureStatusProcessing = "processing"
)

// Signature is one classified signature image.
type Signature struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Timestamp      time.Time      `json:"timestamp"`
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"` // percent, 0-100
	ImageData      *string        `json:"imageData"`  // data URL, nil when not embedded
	Extra          Extra          `json:"-"`
}

var signatureFields = []string{"id", "name", "timestamp", "classification", "confidence", "imageData"}

type signatureJSON Signature

// MarshalJSON encodes the modeled fields plus any preserved extras.
func (s Signature) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(signatureJSON(s))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, s.Extra)
}

// UnmarshalJSON decodes the modeled fields and keeps the rest in Extra.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var v signatureJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, signatureFields)
	if err != nil {
		return err
	}
	v.Extra = extra
	*s = Signature(v)
	return nil
}

// Status returns the opaque "status" field, or "" when unset.
func (s Signature) Status() string {
	var status string
	if ok, err := s.Extra.Get("status", &status); !ok || err != nil {
		return ""
	}
	return status
}
