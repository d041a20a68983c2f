package predict

// Labels returned by the inference service.
const (
	LabelGenuine = "GENUINE"
	LabelForged  = "FORGED"
)

// Verdicts returned by Verify.
const (
	VerdictVerified = "VERIFIED"
	VerdictRejected = "REJECTED"
)

// DefaultThreshold is the genuine-probability cutoff the service uses.
const DefaultThreshold = 0.5

// Image is one uploaded signature image.
type Image struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Prediction is the /predict response.
type Prediction struct {
	Prediction  string  `json:"prediction"`
	Confidence  float64 `json:"confidence"` // genuine probability in percent
	Probability float64 `json:"probability"`
	Threshold   float64 `json:"threshold"`
	Details     Details `json:"details"`
	Timestamp   string  `json:"timestamp"`
	// Mock is set when the result was synthesized locally because the
	// service was unavailable.
	Mock bool `json:"mock,omitempty"`
}

// Genuine reports whether the service labelled the image genuine.
func (p Prediction) Genuine() bool { return p.Prediction == LabelGenuine }

// Details carries the per-class probabilities.
type Details struct {
	GenuineProbability float64 `json:"genuine_probability"`
	ForgedProbability  float64 `json:"forged_probability"`
}

// ImageVerdict is the per-image part of a Verification.
type ImageVerdict struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// Verification is the /verify response.
type Verification struct {
	Match           bool         `json:"match"`
	SimilarityScore float64      `json:"similarity_score"`
	Reference       ImageVerdict `json:"reference"`
	Test            ImageVerdict `json:"test"`
	Verdict         string       `json:"verdict"`
	Timestamp       string       `json:"timestamp"`
	Mock            bool         `json:"mock,omitempty"`
}

// Health is the /health response.
type Health struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	ModelLoaded bool   `json:"model_loaded"`
}

// ModelInfo is the /model/info response. Its shape depends on the loaded
// model, so it is kept as a generic document.
type ModelInfo map[string]any

// ReloadResult is the /model/reload response.
type ReloadResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
}
