package research

import (
	"context"
	"time"
)

type fakeDecisionModel struct {
	decision ModelDecision
	err      error
	calls    int
	prompt   string
	history  []Turn
	onCall   func()
}

func (f *fakeDecisionModel) StructuredDecide(ctx context.Context, prompt string, history []Turn) (ModelDecision, error) {
	f.calls++
	f.prompt = prompt
	f.history = history
	if f.onCall != nil {
		f.onCall()
	}
	return f.decision, f.err
}

type fakeAnswerModel struct {
	out    string
	err    error
	calls  int
	prompt string
}

func (f *fakeAnswerModel) Generate(ctx context.Context, prompt string, history []Turn) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.out, f.err
}

type fakeSearcher struct {
	out     string
	err     error
	calls   int
	queries []string
	topK    int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, topK int) (string, error) {
	f.calls++
	f.queries = append(f.queries, query)
	f.topK = topK
	return f.out, f.err
}

// stepClock advances by one second on every call.
func stepClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}
