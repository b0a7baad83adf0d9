package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow-ai/caseflow/internal/analysis"
	"github.com/caseflow-ai/caseflow/internal/async"
	"github.com/caseflow-ai/caseflow/internal/cases"
	"github.com/caseflow-ai/caseflow/internal/docstore"
	"github.com/caseflow-ai/caseflow/internal/export"
	"github.com/caseflow-ai/caseflow/internal/llm"
	"github.com/caseflow-ai/caseflow/internal/registry"
)

const (
	cannedOpinion  = `{"text":"Claim looks viable.","confidence":0.7}`
	cannedStrategy = `{"steps":[{"order":1,"action":"Demand letter"}],"narrative":"Demand first."}`
	cannedProgress = `{"scenarios":[{"kind":"LIKELY","probability":70},{"kind":"WORST_CASE","probability":30}],"most_likely":"LIKELY","recommendation":"Settle."}`
)

// scriptedInvoker answers by system-prompt role. An optional gate holds every
// call until released so tests can observe a job mid-flight.
type scriptedInvoker struct {
	gate chan struct{}
}

func (f *scriptedInvoker) Invoke(ctx context.Context, req llm.Request) (llm.Response, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return llm.Response{}, ctx.Err()
		}
	}
	switch {
	case strings.Contains(req.System, "legal analyst"):
		return llm.Response{Text: cannedOpinion}, nil
	case strings.Contains(req.System, "litigation strategist"):
		return llm.Response{Text: cannedStrategy}, nil
	case strings.Contains(req.System, "risk assessor"):
		return llm.Response{Text: cannedProgress}, nil
	default:
		return llm.Response{}, fmt.Errorf("unexpected system prompt")
	}
}

type testAPI struct {
	srv   *httptest.Server
	queue *async.Queue
}

func newTestAPI(t *testing.T, inv llm.Invoker) *testAPI {
	t.Helper()

	docs := docstore.NewMemoryStore()
	store := registry.NewMemoryStore(nil)
	caseSvc := cases.NewService(nil)

	orch := analysis.NewOrchestrator(
		store,
		analysis.NewContextAssembler(docs, nil),
		analysis.NewSpecialistRunner(inv, nil, 2, 3*time.Second),
		analysis.NewStrategyStage(inv, nil, 3*time.Second),
		analysis.NewPrognosisStage(inv, nil, 3*time.Second),
		analysis.NewResultCompiler(inv, nil, false, 3*time.Second),
		nil,
	)
	queue := async.NewQueue(orch, nil, async.WithWorkers(1), async.WithJobTimeout(5*time.Second))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		queue.Shutdown(ctx)
	})

	srv := New(
		nil,
		caseSvc,
		store,
		analysis.NewService(caseSvc, store, queue, nil),
		export.NewService(store, nil),
		docs,
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testAPI{srv: ts, queue: queue}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var fields map[string]json.RawMessage
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&fields))
	}
	return resp, fields
}

func rawUUID(t *testing.T, fields map[string]json.RawMessage, key string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	require.NoError(t, json.Unmarshal(fields[key], &id))
	return id
}

func rawString(t *testing.T, fields map[string]json.RawMessage, key string) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(fields[key], &s))
	return s
}

// pollUntilTerminal polls the status endpoint, asserting monotonic progress
// along the way.
func pollUntilTerminal(t *testing.T, api *testAPI, jobID uuid.UUID) (status string, progress int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	last := -1
	for time.Now().Before(deadline) {
		resp, fields := api.do(t, http.MethodGet, "/api/v1/jobs/"+jobID.String(), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var p int
		require.NoError(t, json.Unmarshal(fields["progress"], &p))
		require.GreaterOrEqual(t, p, last, "progress regressed")
		last = p

		st := rawString(t, fields, "status")
		if st == "SUCCEEDED" || st == "FAILED" {
			return st, p
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job did not reach a terminal state")
	return "", 0
}

func TestAPI_FullAnalysisFlow(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, &scriptedInvoker{})

	// Intake: document, case, supplementary, specialist selection.
	resp, fields := api.do(t, http.MethodPost, "/api/v1/documents", map[string]string{"text": "dismissal letter, no notice period"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	primaryID := rawUUID(t, fields, "document_id")

	resp, fields = api.do(t, http.MethodPost, "/api/v1/cases", map[string]any{"kind": "employment", "primary_document_id": primaryID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	caseID := rawUUID(t, fields, "id")

	resp, fields = api.do(t, http.MethodPost, "/api/v1/documents", map[string]string{"text": "employment contract, clause 7"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	supID := rawUUID(t, fields, "document_id")

	resp, _ = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cases/%s/documents", caseID), map[string]any{"document_id": supID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, fields = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/cases/%s/suggestions", caseID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(fields["suggested_documents"]), "termination letter")

	resp, _ = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cases/%s/specialists", caseID), map[string]any{"specialists": []string{"merits", "damages"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Submit and poll.
	resp, fields = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cases/%s/analyze", caseID), nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	jobID := rawUUID(t, fields, "job_id")

	status, progress := pollUntilTerminal(t, api, jobID)
	assert.Equal(t, "SUCCEEDED", status)
	assert.Equal(t, 100, progress)

	// Case is frozen once submitted.
	resp, _ = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cases/%s/documents", caseID), map[string]any{"document_id": supID})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Result carries both scenario entries and the two selected specialists.
	resp, fields = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%s/result", jobID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var outcomes map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(fields["outcomes"], &outcomes))
	assert.Len(t, outcomes, 2)
	assert.Contains(t, string(fields["prognosis"]), "LIKELY")

	// Export ships a workbook.
	resp, _ = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%s/export", jobID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), jobID.String())
}

func TestAPI_ResultNotReadyWhileRunning(t *testing.T) {
	t.Parallel()
	gate := make(chan struct{})
	api := newTestAPI(t, &scriptedInvoker{gate: gate})

	resp, fields := api.do(t, http.MethodPost, "/api/v1/documents", map[string]string{"text": "unpaid invoice"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	docID := rawUUID(t, fields, "document_id")

	resp, fields = api.do(t, http.MethodPost, "/api/v1/cases", map[string]any{"kind": "contract", "primary_document_id": docID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	caseID := rawUUID(t, fields, "id")

	resp, fields = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cases/%s/analyze", caseID), nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	jobID := rawUUID(t, fields, "job_id")

	// The gate holds every model call, so the job cannot finish yet.
	resp, fields = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%s/result", jobID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(fields["error"]), "NOT_READY")

	resp, _ = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%s/export", jobID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	close(gate)
	status, _ := pollUntilTerminal(t, api, jobID)
	assert.Equal(t, "SUCCEEDED", status)
}

func TestAPI_FailedJobResultIsGone(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, &scriptedInvoker{})

	// The case references a document that was never uploaded, so context
	// assembly fails the job.
	resp, fields := api.do(t, http.MethodPost, "/api/v1/cases", map[string]any{"kind": "tort", "primary_document_id": uuid.New()})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	caseID := rawUUID(t, fields, "id")

	resp, fields = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cases/%s/analyze", caseID), nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	jobID := rawUUID(t, fields, "job_id")

	status, progress := pollUntilTerminal(t, api, jobID)
	assert.Equal(t, "FAILED", status)
	assert.LessOrEqual(t, progress, 20)

	resp, fields = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%s", jobID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, rawString(t, fields, "error_message"))

	resp, fields = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%s/result", jobID), nil)
	assert.Equal(t, http.StatusGone, resp.StatusCode)
	assert.Contains(t, string(fields["error"]), "JOB_FAILED")
}

func TestAPI_BadInputs(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, &scriptedInvoker{})

	t.Run("empty document text", func(t *testing.T) {
		resp, _ := api.do(t, http.MethodPost, "/api/v1/documents", map[string]string{"text": "   "})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp, _ := api.do(t, http.MethodGet, "/api/v1/jobs/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown job", func(t *testing.T) {
		resp, _ := api.do(t, http.MethodGet, "/api/v1/jobs/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown case", func(t *testing.T) {
		resp, _ := api.do(t, http.MethodGet, "/api/v1/cases/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown specialist label", func(t *testing.T) {
		resp, fields := api.do(t, http.MethodPost, "/api/v1/documents", map[string]string{"text": "lease"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		docID := rawUUID(t, fields, "document_id")

		resp, fields = api.do(t, http.MethodPost, "/api/v1/cases", map[string]any{"kind": "tenancy", "primary_document_id": docID})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		caseID := rawUUID(t, fields, "id")

		resp, _ = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cases/%s/specialists", caseID), map[string]any{"specialists": []string{"phrenology"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown body field", func(t *testing.T) {
		resp, _ := api.do(t, http.MethodPost, "/api/v1/documents", map[string]string{"contents": "x"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPI_Healthz(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, &scriptedInvoker{})
	resp, fields := api.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", rawString(t, fields, "status"))
}
