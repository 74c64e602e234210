package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"krishimitra/internal/logger"
	"krishimitra/internal/model"
)

var (
	ErrEmptyQuery = errors.New("please type a question or attach an image")
	ErrBusy       = errors.New("please wait for your previous question to be answered")
)

const (
	transportErrorText = "Network error. Your question did not reach the server, please check your connection and try again."
	errorConfidence    = 0.1
)

// querier is the single network dependency of the advisor, satisfied by
// *QueryService in production.
type querier interface {
	Unified(ctx context.Context, sub model.Submission) (*model.QueryResult, error)
}

// Advisor serializes user submissions to the unified-query endpoint: at most
// one query is in flight at a time, and the transcript always shows the user
// message(s) of submission N followed by its AI (or error) reply before
// submission N+1 can start.
//
// Anonymous submission is allowed; the bearer token is attached by the
// backend only when a session is installed.
type Advisor struct {
	query     querier
	history   *HistoryService // optional
	language  string
	sessionID string

	mu         sync.Mutex
	inFlight   bool
	transcript []model.ChatMessage
}

func NewAdvisor(query querier, history *HistoryService, language string) *Advisor {
	return &Advisor{
		query:     query,
		history:   history,
		language:  language,
		sessionID: uuid.NewString(),
	}
}

// SessionID identifies this conversation in the local history store.
func (a *Advisor) SessionID() string { return a.sessionID }

// Busy reports whether a submission is currently in flight. The input
// surface should be disabled while it returns true.
func (a *Advisor) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight
}

// Transcript returns a snapshot of the conversation in display order.
func (a *Advisor) Transcript() []model.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.ChatMessage, len(a.transcript))
	copy(out, a.transcript)
	return out
}

// Submit runs one full submission lifecycle and returns the AI (or error)
// message appended to the transcript.
//
// Rejections happen before any network call: ErrEmptyQuery when neither text
// nor image is present, ErrBusy when another submission is in flight; in
// both cases the transcript is unchanged. Whatever the outcome of an
// accepted submission, the lock is released before Submit returns.
func (a *Advisor) Submit(ctx context.Context, sub model.Submission) (*model.ChatMessage, error) {
	text := strings.TrimSpace(sub.Text)
	if text == "" && len(sub.Image) == 0 {
		return nil, ErrEmptyQuery
	}
	if sub.Language == "" {
		sub.Language = a.language
	}

	a.mu.Lock()
	if a.inFlight {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	a.inFlight = true

	var userMsgs []model.ChatMessage
	if text != "" {
		userMsgs = append(userMsgs, newMessage(model.SenderUser, text, model.Metadata{}))
	}
	if len(sub.Image) > 0 {
		name := sub.ImageName
		if name == "" {
			name = "photo"
		}
		note := fmt.Sprintf("[Attached image: %s]", name)
		userMsgs = append(userMsgs, newMessage(model.SenderUser, note, model.Metadata{}))
	}
	a.transcript = append(a.transcript, userMsgs...)
	a.mu.Unlock()

	// The lock must be released on every exit path, including a panic in
	// the reply handling below.
	defer func() {
		a.mu.Lock()
		a.inFlight = false
		a.mu.Unlock()
	}()

	logger.Info("advisor.submit", "session", a.sessionID, "text_len", len(text), "image", len(sub.Image) > 0)

	result, err := a.query.Unified(ctx, sub)

	var reply model.ChatMessage
	switch {
	case err != nil:
		logger.Warn("advisor.transport_error", "session", a.sessionID, "err", err)
		reply = newMessage(model.SenderAI, transportErrorText,
			model.Metadata{IsError: true, Confidence: errorConfidence})
	case !result.Success:
		msg := result.Error
		if msg == "" {
			msg = "The server could not process your question."
		}
		logger.Warn("advisor.server_error", "session", a.sessionID, "err", msg)
		reply = newMessage(model.SenderAI, "Sorry, something went wrong: "+msg,
			model.Metadata{IsError: true, Confidence: errorConfidence})
	default:
		reply = newMessage(model.SenderAI, result.Response, model.Metadata{
			Confidence:          result.ConfidenceScore,
			DataSources:         result.DataSources,
			Recommendations:     result.Recommendations,
			FollowUpSuggestions: result.FollowUpSuggestions,
		})
	}

	a.mu.Lock()
	a.transcript = append(a.transcript, reply)
	a.mu.Unlock()

	a.saveHistory(append(userMsgs, reply))
	return &reply, nil
}

func newMessage(sender model.Sender, text string, meta model.Metadata) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
		Metadata:  meta,
	}
}

// saveHistory persists the exchange to the local store (fire-and-forget).
func (a *Advisor) saveHistory(msgs []model.ChatMessage) {
	if a.history == nil {
		return
	}
	go func() {
		ctx := context.Background()
		for _, m := range msgs {
			if err := a.history.Append(ctx, a.sessionID, m); err != nil {
				logger.Warn("advisor.history_save_failed", "err", err)
				return
			}
		}
	}()
}
