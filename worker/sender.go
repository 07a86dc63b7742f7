package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oks-citadel/citadelbuy-sub007/delivery"
	"github.com/oks-citadel/citadelbuy-sub007/webhook/signature"
)

// DefaultTimeout bounds one delivery attempt end to end
const DefaultTimeout = 30 * time.Second

// envelope is the JSON body posted to the subscriber endpoint. All fields
// are always present so subscribers see a stable shape.
type envelope struct {
	EventType   string          `json:"eventType"`
	EventID     string          `json:"eventId"`
	Payload     json.RawMessage `json:"payload"`
	Source      string          `json:"source"`
	TriggeredBy string          `json:"triggeredBy"`
}

// Result captures the outcome of one HTTP delivery attempt
type Result struct {
	StatusCode *int
	Duration   time.Duration
	Err        error
}

// Success reports whether the endpoint acknowledged the delivery (2xx)
func (r Result) Success() bool {
	return r.Err == nil && r.StatusCode != nil && *r.StatusCode >= 200 && *r.StatusCode < 300
}

// ErrorMessage renders the failure for the audit trail; empty on success
func (r Result) ErrorMessage() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	if r.StatusCode != nil && !r.Success() {
		return fmt.Sprintf("endpoint returned %d %s", *r.StatusCode, http.StatusText(*r.StatusCode))
	}
	return ""
}

// Sender performs one signed delivery attempt to a subscriber endpoint
type Sender interface {
	Send(ctx context.Context, url string, secret signature.Secret, d delivery.Delivery) Result
}

// HTTPSender posts signed JSON deliveries over HTTP
type HTTPSender struct {
	client *http.Client
}

// NewHTTPSender creates a sender with the given per-attempt timeout
func NewHTTPSender(timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSender{
		client: &http.Client{Timeout: timeout},
	}
}

// Send signs the delivery body and posts it to the endpoint. The response
// body is drained and discarded; only the status code matters.
func (s *HTTPSender) Send(ctx context.Context, url string, secret signature.Secret, d delivery.Delivery) Result {
	body, err := json.Marshal(envelope{
		EventType:   d.EventType,
		EventID:     d.EventID,
		Payload:     d.Payload,
		Source:      d.Source,
		TriggeredBy: d.TriggeredBy,
	})
	if err != nil {
		return Result{Err: fmt.Errorf("marshaling delivery body: %w", err)}
	}

	sig, err := signature.Sign(secret, time.Now(), body)
	if err != nil {
		return Result{Err: fmt.Errorf("signing delivery: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{Err: fmt.Errorf("creating delivery request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", sig.Header())
	req.Header.Set("X-Webhook-Event-Type", d.EventType)
	req.Header.Set("X-Webhook-Event-ID", d.EventID)

	start := time.Now()
	resp, err := s.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		return Result{Duration: duration, Err: fmt.Errorf("delivery request failed: %w", err)}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	code := resp.StatusCode
	return Result{StatusCode: &code, Duration: duration}
}
