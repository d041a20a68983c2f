package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/signature-cli/internal/ingest"
	"github.com/sells-group/signature-cli/internal/kv"
	"github.com/sells-group/signature-cli/internal/model"
	"github.com/sells-group/signature-cli/internal/store"
	"github.com/sells-group/signature-cli/pkg/predict"
	"github.com/sells-group/signature-cli/pkg/predict/mocks"
)

var (
	testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")
)

type testEnv struct {
	srv       *httptest.Server
	store     *store.Store
	mem       *kv.Memory
	predictor *mocks.MockClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := kv.NewMemory()
	st := store.New(mem,
		store.WithClock(func() time.Time { return testNow }),
		store.WithRandSource(rand.NewPCG(5, 6)),
	)
	m := mocks.NewMockClient(t)
	svc := ingest.NewService(st, m, ingest.DefaultOptions())
	srv := httptest.NewServer(NewServer(st, svc, m, WithClock(func() time.Time { return testNow })).Handler())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, store: st, mem: mem, predictor: m}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func multipartBody(t *testing.T, fields map[string][]byte, values map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range fields {
		w, err := mw.CreateFormFile(name, name+".png")
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	e.predictor.On("Health", mock.Anything).Return(&predict.Health{Status: "healthy", ModelLoaded: true}, nil)

	resp := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["model_loaded"])
}

func TestHealth_InferenceDown(t *testing.T) {
	e := newTestEnv(t)
	e.predictor.On("Health", mock.Anything).Return(nil, errors.New("connection refused"))

	resp := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "unavailable", decode[map[string]any](t, resp)["inference"])
}

func TestSignatureCRUD(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/signatures", map[string]any{
		"name": "Jane", "classification": "Authentic", "confidence": 91.5, "fileName": "jane.png",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[model.Signature](t, resp)
	assert.Regexp(t, `^SIG-20240315-\d{3}$`, created.ID)

	resp = e.do(t, http.MethodGet, "/signatures/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw := decode[map[string]any](t, resp)
	assert.Equal(t, "jane.png", raw["fileName"])
	assert.Equal(t, "Jane", raw["name"])

	resp = e.do(t, http.MethodPut, "/signatures/"+created.ID, map[string]any{
		"name": "Jane D", "classification": "Forged", "confidence": 80,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, decode[model.Signature](t, resp).ID)

	resp = e.do(t, http.MethodGet, "/signatures?classification=Forged", nil)
	list := decode[[]model.Signature](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "Jane D", list[0].Name)

	resp = e.do(t, http.MethodDelete, "/signatures/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/signatures/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "signature not found", decode[map[string]string](t, resp)["error"])
}

func TestSignature_Validation(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/signatures", map[string]any{"classification": "Maybe"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/signatures", map[string]any{"confidence": 101})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/signatures?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignature_Corrupt(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.mem.Set(context.Background(), "sigverify:signature:SIG-bad", "{"))

	resp := e.do(t, http.MethodGet, "/signatures/SIG-bad", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/signatures", nil)
	assert.Empty(t, decode[[]model.Signature](t, resp))
}

func TestBatches_EscapedIDAndSummarize(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	for _, c := range []model.Classification{model.ClassificationAuthentic, model.ClassificationForged} {
		_, err := e.store.SaveSignature(ctx, model.Signature{Classification: c})
		require.NoError(t, err)
	}

	resp := e.do(t, http.MethodPut, "/batches/%2324588", map[string]any{"name": "Default Batch"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b := decode[model.Batch](t, resp)
	assert.Equal(t, "#24588", b.ID)
	assert.Equal(t, testNow, b.LastModified)

	resp = e.do(t, http.MethodPost, "/batches/%2324588/summarize", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b = decode[model.Batch](t, resp)
	assert.Equal(t, 2, b.TotalSignatures)
	assert.Equal(t, 1, b.Verified)
	assert.Equal(t, 1, b.Forgeries)

	resp = e.do(t, http.MethodGet, "/batches", nil)
	assert.Len(t, decode[[]model.Batch](t, resp), 1)

	resp = e.do(t, http.MethodDelete, "/batches/%2324588", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = e.do(t, http.MethodGet, "/batches/%2324588", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = e.do(t, http.MethodPost, "/batches/%2324588/summarize", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateBatch_AssignsID(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodPost, "/batches", map[string]any{"name": "Q2"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Regexp(t, `^#\d{5}$`, decode[model.Batch](t, resp).ID)
}

func TestMetrics(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	for _, c := range []float64{95, 85, 60} {
		_, err := e.store.SaveSignature(ctx, model.Signature{Confidence: c})
		require.NoError(t, err)
	}

	resp := e.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, model.DefaultMetrics().ConfidenceDistribution, decode[model.Metrics](t, resp).ConfidenceDistribution)

	resp = e.do(t, http.MethodPost, "/metrics/recalculate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	m := decode[model.Metrics](t, resp)
	assert.Equal(t, model.ConfidenceDistribution{High: 33.3, Medium: 33.3, Low: 33.3}, m.ConfidenceDistribution)
	assert.Len(t, m.AccuracyTrends, 7)
}

func TestPrefs(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/prefs", nil)
	assert.Equal(t, model.DefaultUserPrefs(), decode[model.UserPrefs](t, resp))

	resp = e.do(t, http.MethodPut, "/prefs", model.UserPrefs{Theme: "dark", DefaultView: "list", ItemsPerPage: 20})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/prefs", nil)
	assert.Equal(t, "dark", decode[model.UserPrefs](t, resp).Theme)
}

func TestExportImport(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodPost, "/sample?count=5", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decode[model.Snapshot](t, resp)
	assert.Len(t, snap.Signatures, 5)

	other := newTestEnv(t)
	resp = other.do(t, http.MethodPost, "/import", snap)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[store.ImportResult](t, resp)
	assert.Equal(t, 5, res.Signatures)
	assert.True(t, res.UserPrefs)

	resp = other.do(t, http.MethodGet, "/signatures", nil)
	assert.Equal(t, snap.Signatures, decode[[]model.Signature](t, resp))

	resp = e.do(t, http.MethodPost, "/import", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportXLSX(t *testing.T) {
	e := newTestEnv(t)
	e.do(t, http.MethodPost, "/sample?count=3", nil)

	resp := e.do(t, http.MethodGet, "/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	f, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	assert.Len(t, f.Sheet["Signatures"].Rows, 4)

	resp = e.do(t, http.MethodGet, "/export?format=csv", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSample_BadCount(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodPost, "/sample?count=0", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpload(t *testing.T) {
	e := newTestEnv(t)
	p := predict.NewPrediction(0.95, predict.DefaultThreshold, "ts", false)
	e.predictor.On("Predict", mock.Anything, mock.Anything).Return(&p, nil).Once()

	body, ct := multipartBody(t, map[string][]byte{"file": pngData}, map[string]string{"name": "Contract 7"})
	resp, err := http.Post(e.srv.URL+"/upload", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sig := decode[model.Signature](t, resp)
	assert.Equal(t, "Contract 7", sig.Name)
	assert.Equal(t, model.ClassificationAuthentic, sig.Classification)

	got, err := e.store.GetSignature(context.Background(), sig.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestUpload_Errors(t *testing.T) {
	e := newTestEnv(t)

	body, ct := multipartBody(t, map[string][]byte{"file": []byte("plain text")}, nil)
	resp, err := http.Post(e.srv.URL+"/upload", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, ct = multipartBody(t, map[string][]byte{"other": pngData}, nil)
	resp2, err := http.Post(e.srv.URL+"/upload", ct, body)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
	assert.Equal(t, "file file is required", decode[map[string]string](t, resp2)["error"])
}

func TestUpload_PredictorDown(t *testing.T) {
	e := newTestEnv(t)
	e.predictor.On("Predict", mock.Anything, mock.Anything).Return(nil, errors.New("service down")).Once()

	body, ct := multipartBody(t, map[string][]byte{"file": pngData}, nil)
	resp, err := http.Post(e.srv.URL+"/upload", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "classification failed", decode[map[string]string](t, resp)["error"])

	all, err := e.store.GetAllSignatures(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSignature_IDsNeedingEscapes(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	for _, id := range []string{"SIG-50%", "a/b", "SIG-20240315-001"} {
		_, err := e.store.SaveSignature(ctx, model.Signature{ID: id, Name: id, Classification: model.ClassificationAuthentic})
		require.NoError(t, err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"/signatures/SIG-50%25", "SIG-50%"},
		{"/signatures/a%2Fb", "a/b"},
		{"/signatures/SIG-20240315-001", "SIG-20240315-001"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := e.do(t, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, decode[model.Signature](t, resp).ID)
		})
	}
}

func TestVerify(t *testing.T) {
	e := newTestEnv(t)
	v := predict.Compare(
		predict.NewPrediction(0.9, predict.DefaultThreshold, "", false),
		predict.NewPrediction(0.88, predict.DefaultThreshold, "", false),
	)
	e.predictor.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(&v, nil).Once()

	body, ct := multipartBody(t, map[string][]byte{"reference": pngData, "test": pngData}, nil)
	resp, err := http.Post(e.srv.URL+"/verify", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[predict.Verification](t, resp)
	assert.True(t, got.Match)
	assert.Equal(t, predict.VerdictVerified, got.Verdict)
}

func TestModelEndpoints(t *testing.T) {
	e := newTestEnv(t)
	e.predictor.On("ModelInfo", mock.Anything).Return(predict.ModelInfo{"status": "loaded"}, nil)
	e.predictor.On("ReloadModel", mock.Anything).Return(nil, errors.New("boom"))

	resp := e.do(t, http.MethodGet, "/model/info", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "loaded", decode[map[string]any](t, resp)["status"])

	resp = e.do(t, http.MethodPost, "/model/reload", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEnv(t)
	req, err := http.NewRequest(http.MethodOptions, e.srv.URL+"/signatures", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
