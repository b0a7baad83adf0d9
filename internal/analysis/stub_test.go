package analysis

import (
	"context"
	"strings"
	"sync"

	"github.com/caseflow-ai/caseflow/internal/llm"
)

// fakeInvoker scripts the language-model service per call. The handler can
// dispatch on the system prompt to tell pipeline stages apart.
type fakeInvoker struct {
	mu      sync.Mutex
	calls   int
	handler func(ctx context.Context, req llm.Request) (llm.Response, error)
}

func (f *fakeInvoker) Invoke(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.handler(ctx, req)
}

func (f *fakeInvoker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func isSpecialistCall(req llm.Request) bool {
	return strings.Contains(req.System, "legal analyst")
}

func isStrategyCall(req llm.Request) bool {
	return strings.Contains(req.System, "litigation strategist")
}

func isPrognosisCall(req llm.Request) bool {
	return strings.Contains(req.System, "risk assessor")
}

func isContinuationCall(req llm.Request) bool {
	return strings.Contains(req.System, "legal drafter")
}

const (
	okOpinion  = `{"text":"The claim has merit.","confidence":0.82}`
	okStrategy = `{"steps":[{"order":1,"action":"Send a formal demand letter","deadline":"within 2 weeks"},{"order":2,"action":"File the claim"}],"narrative":"Demand first, then litigate.","alternative_paths":["mediation"]}`

	okPrognosis = `{"scenarios":[{"kind":"LIKELY","probability":55,"estimated_value_eur":10000,"estimated_months":9},{"kind":"WORST_CASE","probability":25},{"kind":"SETTLEMENT","probability":20}],"most_likely":"LIKELY","recommendation":"Pursue settlement leverage first."}`

	// Sums to 100.05 — inside the accepted tolerance.
	tolerantPrognosis = `{"scenarios":[{"kind":"LIKELY","probability":60.05},{"kind":"WORST_CASE","probability":40}],"most_likely":"LIKELY","recommendation":"Proceed."}`

	// Sums to 95 — a consistency violation, not a structural one.
	badSumPrognosis = `{"scenarios":[{"kind":"LIKELY","probability":55},{"kind":"WORST_CASE","probability":40}],"most_likely":"LIKELY","recommendation":"Proceed."}`
)
