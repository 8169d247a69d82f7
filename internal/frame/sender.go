package frame

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/tokenstore"
)

// Limits imposed by clients on notification fields.
const (
	MaxTitleLength = 32
	MaxBodyLength  = 128
	sendTimeout    = 10 * time.Second
)

// SendState is the outcome of one notification send.
type SendState string

const (
	StateSuccess      SendState = "success"
	StateNoToken      SendState = "no_token"
	StateRateLimited  SendState = "rate_limit"
	StateInvalidToken SendState = "invalid_token"
)

// Notification is what the user sees.
type Notification struct {
	Title     string
	Body      string
	TargetURL string // defaults to the sender's app URL
}

type sendRequest struct {
	NotificationID string   `json:"notificationId"`
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	TargetURL      string   `json:"targetUrl"`
	Tokens         []string `json:"tokens"`
}

type sendResponse struct {
	Result struct {
		SuccessfulTokens  []string `json:"successfulTokens"`
		InvalidTokens     []string `json:"invalidTokens"`
		RateLimitedTokens []string `json:"rateLimitedTokens"`
	} `json:"result"`
}

// Sender delivers frame notifications to the details kept in a store.
type Sender struct {
	store   tokenstore.Store
	appURL  string
	client  *http.Client
	limiter *rate.Limiter
	newID   func() string
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithRateLimit caps outgoing sends at r per second with the given burst.
func WithRateLimit(r rate.Limit, burst int) SenderOption {
	return func(s *Sender) {
		s.limiter = rate.NewLimiter(r, burst)
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) SenderOption {
	return func(s *Sender) {
		if c != nil {
			s.client = c
		}
	}
}

// NewSender creates a sender. appURL is the default notification target.
func NewSender(store tokenstore.Store, appURL string, opts ...SenderOption) *Sender {
	s := &Sender{
		store:   store,
		appURL:  appURL,
		client:  &http.Client{Timeout: sendTimeout},
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send notifies one fid. A fid without stored details yields StateNoToken
// and no error. A token the client reports invalid is deleted.
func (s *Sender) Send(ctx context.Context, fid int64, n Notification) (SendState, error) {
	details, err := s.store.Get(ctx, fid)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return StateNoToken, nil
	}
	if err != nil {
		return "", fmt.Errorf("loading notification details: %w", err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	target := n.TargetURL
	if target == "" {
		target = s.appURL
	}
	payload := sendRequest{
		NotificationID: s.newID(),
		Title:          truncate(n.Title, MaxTitleLength),
		Body:           truncate(n.Body, MaxBodyLength),
		TargetURL:      target,
		Tokens:         []string{details.Token},
	}

	state, err := s.post(ctx, details.URL, payload)
	if err != nil {
		logger.IncrCounter("frame.notify_error")
		return "", err
	}
	logger.IncrCounter("frame.notify_" + string(state))

	if state == StateInvalidToken {
		if err := s.store.Delete(ctx, fid); err != nil {
			return state, fmt.Errorf("deleting invalid token: %w", err)
		}
		logger.Info("deleted invalid notification token", logger.Fields{"fid": fid})
	}
	return state, nil
}

// Broadcast sends n to every fid in the store and returns the count that
// succeeded. Per-fid failures are logged and skipped.
func (s *Sender) Broadcast(ctx context.Context, n Notification) (int, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing notification details: %w", err)
	}

	sent := 0
	for fid := range all {
		state, err := s.Send(ctx, fid, n)
		if err != nil {
			if ctx.Err() != nil {
				return sent, ctx.Err()
			}
			logger.Error("frame notification failed", logger.Fields{"fid": fid}, err)
			continue
		}
		if state == StateSuccess {
			sent++
		}
	}
	return sent, nil
}

func (s *Sender) post(ctx context.Context, endpoint string, payload sendRequest) (SendState, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("notification endpoint error (status %d): %s", resp.StatusCode, string(body))
	}

	var result sendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	switch {
	case len(result.Result.InvalidTokens) > 0:
		return StateInvalidToken, nil
	case len(result.Result.RateLimitedTokens) > 0:
		return StateRateLimited, nil
	case len(result.Result.SuccessfulTokens) > 0:
		return StateSuccess, nil
	default:
		return "", fmt.Errorf("notification endpoint accepted no tokens: %s", string(body))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
