// Package ingest turns uploaded signature images into stored, classified
// signature records.
package ingest

import (
	"context"
	"encoding/base64"
	"errors"
	"math"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/signature-cli/internal/model"
	"github.com/sells-group/signature-cli/internal/store"
	"github.com/sells-group/signature-cli/pkg/predict"
)

// ErrNotImage is returned for uploads whose content is not an image.
var ErrNotImage = eris.New("ingest: file must be an image")

// ErrPredict is returned when the inference service cannot classify an
// upload. The underlying client error is joined to it.
var ErrPredict = eris.New("ingest: prediction failed")

// DefaultStylizedThreshold is the confidence, in percent, below which a
// genuine prediction is recorded as Stylized.
const DefaultStylizedThreshold = 70.0

// Upload is one image submitted for classification.
type Upload struct {
	FileName    string
	ContentType string
	Name        string // display name; derived from FileName when empty
	Data        []byte
}

// Options controls record construction.
type Options struct {
	EmbedImages       bool
	StylizedThreshold float64
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{EmbedImages: true, StylizedThreshold: DefaultStylizedThreshold}
}

// Service classifies uploads and saves the resulting signatures.
type Service struct {
	store     *store.Store
	predictor predict.Client
	opts      Options
}

// NewService creates a Service.
func NewService(st *store.Store, predictor predict.Client, opts Options) *Service {
	return &Service{store: st, predictor: predictor, opts: opts}
}

// Analysis is stored in the signature's "analysis" field.
type Analysis struct {
	Prediction         string  `json:"prediction"`
	Probability        float64 `json:"probability"`
	GenuineProbability float64 `json:"genuineProbability"`
	ForgedProbability  float64 `json:"forgedProbability"`
	Threshold          float64 `json:"threshold"`
	Mock               bool    `json:"mock"`
	ModelTimestamp     string  `json:"modelTimestamp,omitempty"`
}

// Classify predicts up, builds a signature record from the result, saves
// it and returns it.
func (s *Service) Classify(ctx context.Context, up Upload) (model.Signature, error) {
	contentType, err := imageContentType(up)
	if err != nil {
		return model.Signature{}, err
	}
	up.ContentType = contentType

	pred, err := s.predictor.Predict(ctx, predict.Image{
		FileName:    up.FileName,
		ContentType: up.ContentType,
		Data:        up.Data,
	})
	if err != nil {
		return model.Signature{}, eris.Wrapf(errors.Join(ErrPredict, err), "ingest: classify %s", up.FileName)
	}

	id, err := s.store.NewSignatureID(ctx)
	if err != nil {
		return model.Signature{}, err
	}
	sig, err := s.buildSignature(id, up, *pred)
	if err != nil {
		return model.Signature{}, err
	}
	sig, err = s.store.SaveSignature(ctx, sig)
	if err != nil {
		return model.Signature{}, eris.Wrapf(err, "ingest: save %s", id)
	}

	zap.L().Info("ingest: classified signature",
		zap.String("id", sig.ID),
		zap.String("file", up.FileName),
		zap.String("classification", string(sig.Classification)),
		zap.Float64("confidence", sig.Confidence),
		zap.Bool("mock", pred.Mock),
	)
	return sig, nil
}

func (s *Service) buildSignature(id string, up Upload, pred predict.Prediction) (model.Signature, error) {
	class, confidence := Classification(pred, s.opts.StylizedThreshold)
	sig := model.Signature{
		ID:             id,
		Name:           displayName(up),
		Classification: class,
		Confidence:     confidence,
	}
	if s.opts.EmbedImages {
		url := DataURL(up.ContentType, up.Data)
		sig.ImageData = &url
	}

	extras := map[string]any{
		"fileName": up.FileName,
		"status":   model.SignatureStatusVerified,
		"analysis": Analysis{
			Prediction:         pred.Prediction,
			Probability:        pred.Probability,
			GenuineProbability: pred.Details.GenuineProbability,
			ForgedProbability:  pred.Details.ForgedProbability,
			Threshold:          pred.Threshold,
			Mock:               pred.Mock,
			ModelTimestamp:     pred.Timestamp,
		},
	}
	for k, v := range extras {
		if err := sig.Extra.Set(k, v); err != nil {
			return sig, err
		}
	}
	return sig, nil
}

// Classification maps a prediction to a record classification and the
// confidence in that classification. Forged results report the forged
// probability; genuine results below stylizedThreshold are Stylized.
func Classification(pred predict.Prediction, stylizedThreshold float64) (model.Classification, float64) {
	if !pred.Genuine() {
		return model.ClassificationForged, roundTo2(100 - pred.Confidence)
	}
	if pred.Confidence < stylizedThreshold {
		return model.ClassificationStylized, pred.Confidence
	}
	return model.ClassificationAuthentic, pred.Confidence
}

// DataURL encodes data as a base64 data URL.
func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func imageContentType(up Upload) (string, error) {
	if len(up.Data) == 0 {
		return "", eris.Wrap(ErrNotImage, "empty upload")
	}
	ct := up.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(up.Data)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if !strings.HasPrefix(ct, "image/") {
		return "", eris.Wrapf(ErrNotImage, "got %s", ct)
	}
	return ct, nil
}

func displayName(up Upload) string {
	if up.Name != "" {
		return up.Name
	}
	base := filepath.Base(up.FileName)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" && name != "." {
		return name
	}
	return "Untitled signature"
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
