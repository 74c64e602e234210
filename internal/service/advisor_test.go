package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"krishimitra/internal/model"
)

type stubQuerier struct {
	mu     sync.Mutex
	calls  int
	last   model.Submission
	block  chan struct{}
	result *model.QueryResult
	err    error
}

func (s *stubQuerier) Unified(ctx context.Context, sub model.Submission) (*model.QueryResult, error) {
	s.mu.Lock()
	s.calls++
	s.last = sub
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	return s.result, s.err
}

func (s *stubQuerier) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubQuerier) lastSubmission() model.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func TestSubmitEmptyQuery(t *testing.T) {
	stub := &stubQuerier{}
	adv := NewAdvisor(stub, nil, "hindi")

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := adv.Submit(context.Background(), model.Submission{Text: text})
		if !errors.Is(err, ErrEmptyQuery) {
			t.Fatalf("text %q: got err %v, want ErrEmptyQuery", text, err)
		}
	}
	if n := stub.callCount(); n != 0 {
		t.Errorf("network calls = %d, want 0", n)
	}
	if got := adv.Transcript(); len(got) != 0 {
		t.Errorf("transcript has %d messages, want 0", len(got))
	}
	if adv.Busy() {
		t.Error("advisor busy after rejected submission")
	}
}

func TestSubmitBusy(t *testing.T) {
	stub := &stubQuerier{
		block:  make(chan struct{}),
		result: &model.QueryResult{Success: true, Response: "ok"},
	}
	adv := NewAdvisor(stub, nil, "hindi")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := adv.Submit(context.Background(), model.Submission{Text: "first"}); err != nil {
			t.Errorf("first submit: %v", err)
		}
	}()

	waitBusy(t, adv)

	_, err := adv.Submit(context.Background(), model.Submission{Text: "second"})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("second submit: got err %v, want ErrBusy", err)
	}

	close(stub.block)
	<-done

	if n := stub.callCount(); n != 1 {
		t.Errorf("network calls = %d, want 1", n)
	}
	// Rejected submission must leave no trace: the transcript holds only the
	// first exchange.
	msgs := adv.Transcript()
	if len(msgs) != 2 {
		t.Fatalf("transcript has %d messages, want 2", len(msgs))
	}
	if msgs[0].Text != "first" || msgs[1].Text != "ok" {
		t.Errorf("transcript = [%q, %q]", msgs[0].Text, msgs[1].Text)
	}
}

func TestSubmitSuccess(t *testing.T) {
	stub := &stubQuerier{
		result: &model.QueryResult{
			Success:             true,
			Response:            "Irrigate in the early morning.",
			ConfidenceScore:     0.92,
			DataSources:         []string{"weather", "soil"},
			Recommendations:     []string{"Check soil moisture first"},
			FollowUpSuggestions: []string{"When is the next rain?"},
		},
	}
	adv := NewAdvisor(stub, nil, "hindi")

	reply, err := adv.Submit(context.Background(), model.Submission{Text: "Should I irrigate my wheat?"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reply.Sender != model.SenderAI {
		t.Errorf("sender = %q, want %q", reply.Sender, model.SenderAI)
	}
	if reply.Text != "Irrigate in the early morning." {
		t.Errorf("reply text = %q", reply.Text)
	}
	if reply.Metadata.IsError {
		t.Error("success reply flagged as error")
	}
	if reply.Metadata.Confidence != 0.92 {
		t.Errorf("confidence = %v, want 0.92", reply.Metadata.Confidence)
	}
	if len(reply.Metadata.DataSources) != 2 || reply.Metadata.DataSources[0] != "weather" {
		t.Errorf("data sources = %v", reply.Metadata.DataSources)
	}
	if len(reply.Metadata.FollowUpSuggestions) != 1 {
		t.Errorf("follow-ups = %v", reply.Metadata.FollowUpSuggestions)
	}

	msgs := adv.Transcript()
	if len(msgs) != 2 {
		t.Fatalf("transcript has %d messages, want 2", len(msgs))
	}
	if msgs[0].Sender != model.SenderUser || msgs[0].Text != "Should I irrigate my wheat?" {
		t.Errorf("first message = %+v", msgs[0])
	}
	if adv.Busy() {
		t.Error("advisor still busy after reply")
	}
}

func TestSubmitServerError(t *testing.T) {
	stub := &stubQuerier{
		result: &model.QueryResult{Success: false, Error: "model overloaded"},
	}
	adv := NewAdvisor(stub, nil, "hindi")

	reply, err := adv.Submit(context.Background(), model.Submission{Text: "hello"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !reply.Metadata.IsError {
		t.Error("server error not flagged")
	}
	if want := "Sorry, something went wrong: model overloaded"; reply.Text != want {
		t.Errorf("reply text = %q, want %q", reply.Text, want)
	}
	if reply.Metadata.Confidence != errorConfidence {
		t.Errorf("confidence = %v, want %v", reply.Metadata.Confidence, errorConfidence)
	}
	if adv.Busy() {
		t.Error("lock not released after server error")
	}
}

func TestSubmitTransportError(t *testing.T) {
	stub := &stubQuerier{err: errors.New("dial tcp: connection refused")}
	adv := NewAdvisor(stub, nil, "hindi")

	reply, err := adv.Submit(context.Background(), model.Submission{Text: "hello"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !reply.Metadata.IsError {
		t.Error("transport error not flagged")
	}
	if reply.Text != transportErrorText {
		t.Errorf("reply text = %q", reply.Text)
	}

	// Lock must be released: a follow-up submission goes through.
	stub.err = nil
	stub.result = &model.QueryResult{Success: true, Response: "back online"}
	if _, err := adv.Submit(context.Background(), model.Submission{Text: "retry"}); err != nil {
		t.Fatalf("submit after transport error: %v", err)
	}
	if n := stub.callCount(); n != 2 {
		t.Errorf("network calls = %d, want 2", n)
	}
}

func TestSubmitImageOnly(t *testing.T) {
	stub := &stubQuerier{
		result: &model.QueryResult{Success: true, Response: "Looks like leaf rust."},
	}
	adv := NewAdvisor(stub, nil, "hindi")

	_, err := adv.Submit(context.Background(), model.Submission{
		Image:     []byte{0xff, 0xd8, 0xff},
		ImageName: "leaf.jpg",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	msgs := adv.Transcript()
	if len(msgs) != 2 {
		t.Fatalf("transcript has %d messages, want 2", len(msgs))
	}
	if want := "[Attached image: leaf.jpg]"; msgs[0].Text != want {
		t.Errorf("user message = %q, want %q", msgs[0].Text, want)
	}
}

func TestSubmitDefaultLanguage(t *testing.T) {
	stub := &stubQuerier{result: &model.QueryResult{Success: true, Response: "ok"}}
	adv := NewAdvisor(stub, nil, "hindi")

	if _, err := adv.Submit(context.Background(), model.Submission{Text: "hi"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := stub.lastSubmission().Language; got != "hindi" {
		t.Errorf("language = %q, want hindi", got)
	}

	if _, err := adv.Submit(context.Background(), model.Submission{Text: "hi", Language: "english"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := stub.lastSubmission().Language; got != "english" {
		t.Errorf("language = %q, want english", got)
	}
}

func TestTranscriptSnapshot(t *testing.T) {
	stub := &stubQuerier{result: &model.QueryResult{Success: true, Response: "ok"}}
	adv := NewAdvisor(stub, nil, "hindi")

	if _, err := adv.Submit(context.Background(), model.Submission{Text: "hi"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	snap := adv.Transcript()
	snap[0].Text = "mutated"
	if adv.Transcript()[0].Text != "hi" {
		t.Error("transcript snapshot shares backing array with internal state")
	}
}

func waitBusy(t *testing.T, adv *Advisor) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !adv.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("advisor never became busy")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestErrorMessagesAreUserFacing(t *testing.T) {
	// The sentinel texts double as UI copy; keep them sentence-shaped.
	for _, err := range []error{ErrEmptyQuery, ErrBusy} {
		if strings.TrimSpace(err.Error()) == "" {
			t.Errorf("empty error text for %v", err)
		}
	}
}
