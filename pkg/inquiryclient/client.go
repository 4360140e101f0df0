// Package inquiryclient submits the inquiry form from Go the same way the
// browser controller does: validate locally, post with a token, then branch
// on the response.
package inquiryclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/CTNinc/keinomori-summerlp2025/pkg/validation"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	submitPath = "/v1/inquiry"
	tokenPath  = "/v1/inquiry/token"
	rulesPath  = "/v1/inquiry/rules"

	// RetryMessage is shown for any transport failure
	RetryMessage = "送信に失敗しました。しばらく時間をおいて再度お試しください。"
	// FallbackMessage is shown when a rejection carries no message
	FallbackMessage = "送信に失敗しました。"
)

// Kind is the branch a submission ended in
type Kind int

const (
	// KindAccepted is a JSON response with success true
	KindAccepted Kind = iota
	// KindRejected is a JSON response with success false
	KindRejected
	// KindRedirected means the server answered with a redirect
	KindRedirected
	// KindConfirmed is a 2xx response that is not JSON
	KindConfirmed
	// KindFailed covers transport errors and non-2xx responses
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindAccepted:
		return "accepted"
	case KindRejected:
		return "rejected"
	case KindRedirected:
		return "redirected"
	case KindConfirmed:
		return "confirmed"
	case KindFailed:
		return "failed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Result is the outcome of one Submit
type Result struct {
	Kind     Kind
	Message  string
	Errors   map[string]string
	Location string
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

type tokenEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Token string `json:"token"`
	} `json:"data"`
}

type rulesEnvelope struct {
	Success bool              `json:"success"`
	Data    []validation.Rule `json:"data"`
}

// Client drives the inquiry endpoints of one server
type Client struct {
	http      *resty.Client
	log       zerolog.Logger
	location  *time.Location
	now       func() time.Time
	mu        sync.Mutex
	validator *validation.Validator
	token     string
}

type Option func(*Client)

// WithLocation sets the zone that decides which day is today
func WithLocation(loc *time.Location) Option {
	return func(c *Client) { c.location = loc }
}

// WithClock overrides the clock used by Validate
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithLogger sets the logger for background token refreshes
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout bounds every request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// New creates a client for the server at baseURL
func New(baseURL string, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", "keinomori-inquiry-client/1.0").
		// Report redirects instead of following them
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))

	c := &Client{
		http:      httpClient,
		log:       zerolog.Nop(),
		location:  time.Local,
		now:       time.Now,
		validator: validation.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadRules replaces the built-in rule set with the one the server enforces
func (c *Client) LoadRules(ctx context.Context) error {
	var body rulesEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&body).
		Get(rulesPath)
	if err != nil {
		return fmt.Errorf("failed to fetch rules: %w", err)
	}
	if !resp.IsSuccess() || !body.Success {
		return fmt.Errorf("failed to fetch rules: status %d", resp.StatusCode())
	}
	for _, r := range body.Data {
		if r.Pattern == "" {
			continue
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("rule %s/%s has invalid pattern: %w", r.Field, r.Check, err)
		}
	}

	v := validation.NewWithRules(body.Data)
	c.mu.Lock()
	c.validator = v
	c.mu.Unlock()
	return nil
}

// Validate returns the messages of every failing rule in order
func (c *Client) Validate(form Form) []string {
	c.mu.Lock()
	v := c.validator
	c.mu.Unlock()
	return v.Client(form, c.now().In(c.location))
}

// Token fetches a fresh anti-forgery token and keeps it for the next Submit
func (c *Client) Token(ctx context.Context) (string, error) {
	var body tokenEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&body).
		Get(tokenPath)
	if err != nil {
		return "", fmt.Errorf("failed to fetch token: %w", err)
	}
	if !resp.IsSuccess() || !body.Success || body.Data.Token == "" {
		return "", fmt.Errorf("failed to fetch token: status %d", resp.StatusCode())
	}

	c.mu.Lock()
	c.token = body.Data.Token
	c.mu.Unlock()
	return body.Data.Token, nil
}

// Submit validates the form and posts it. A *ValidationError means nothing
// was sent. Transport failures return KindFailed with RetryMessage together
// with the cause.
func (c *Client) Submit(ctx context.Context, form Form) (Result, error) {
	if msgs := c.Validate(form); len(msgs) > 0 {
		return Result{}, &ValidationError{Messages: msgs}
	}

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == "" {
		var err error
		if token, err = c.Token(ctx); err != nil {
			return Result{Kind: KindFailed, Message: RetryMessage}, err
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form.formData(token)).
		Post(submitPath)
	if err != nil {
		return Result{Kind: KindFailed, Message: RetryMessage}, fmt.Errorf("failed to submit inquiry: %w", err)
	}

	status := resp.StatusCode()
	switch {
	case status >= 300 && status < 400:
		return Result{Kind: KindRedirected, Location: resp.Header().Get("Location")}, nil
	case !resp.IsSuccess():
		return Result{Kind: KindFailed, Message: RetryMessage}, fmt.Errorf("failed to submit inquiry: status %d", status)
	case !strings.Contains(resp.Header().Get("Content-Type"), "application/json"):
		return Result{Kind: KindConfirmed}, nil
	}

	var body envelope
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return Result{Kind: KindFailed, Message: RetryMessage}, fmt.Errorf("failed to decode response: %w", err)
	}

	if !body.Success {
		msg := body.Message
		if msg == "" {
			msg = FallbackMessage
		}
		// A rejection without field errors is the token check or a mail
		// failure; the next attempt starts from a fresh token.
		if len(body.Errors) == 0 {
			c.mu.Lock()
			if c.token == token {
				c.token = ""
			}
			c.mu.Unlock()
		}
		return Result{Kind: KindRejected, Message: msg, Errors: body.Errors}, nil
	}

	// The form is reset after success, so the next one gets a new token
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	if _, err := c.Token(ctx); err != nil {
		c.log.Warn().Err(err).Msg("token refresh after submission failed")
	}

	return Result{Kind: KindAccepted, Message: body.Message}, nil
}

// IsValidation reports whether err came from local validation
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
