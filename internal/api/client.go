package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go-clinic-panel/internal/auth"
	"go-clinic-panel/internal/config"

	"github.com/sirupsen/logrus"
)

const (
	PathLogin   = "user/login"
	PathRefresh = "user/refresh"
	PathUser    = "user/"
)

// Client talks to the REST backend. It attaches the stored bearer token to every request,
// turns 4xx/5xx responses into toasts, and on a 401 tries exactly one token refresh
// before replaying the request.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens *auth.Tokens
	notify Notifier
	log    *logrus.Logger

	// refreshMu lets one refresh run at a time; calls that failed with a token
	// another call already replaced just replay.
	refreshMu sync.Mutex
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds each request; zero keeps the default of no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(baseURL string, tokens *auth.Tokens, notifier Notifier, opts ...Option) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	c := &Client{
		base:   base,
		http:   &http.Client{},
		tokens: tokens,
		notify: notifier,
		log:    config.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notify == nil {
		c.notify = LogNotifier{Log: c.log}
	}
	return c, nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, nil)
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for a token pair and stores both tokens.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var pair tokenPair
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, PathLogin, nil, body, &pair); err != nil {
		return err
	}
	if pair.Access == "" {
		return fmt.Errorf("login response carried no access token")
	}
	return c.tokens.Save(ctx, pair.Access, pair.Refresh)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.Clear(ctx)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
	}

	status, respBody, sent, err := c.send(ctx, method, path, query, payload)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !isAuthPath(path) {
		if rerr := c.refreshAfter(ctx, sent); rerr != nil {
			c.log.WithFields(logrus.Fields{"path": path, "error": rerr.Error()}).Warn("token refresh failed, tokens cleared")
		} else {
			status, respBody, _, err = c.send(ctx, method, path, query, payload)
			if err != nil {
				return err
			}
		}
	}

	if status >= 400 {
		apiErr := newError(status, respBody)
		c.notify.Notify(Notification{
			Level:   "error",
			Message: apiErr.Detail,
			Status:  status,
			Time:    time.Now(),
		})
		return apiErr
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// refreshAfter refreshes the access token unless a concurrent call already replaced
// the one this request was rejected with.
func (c *Client) refreshAfter(ctx context.Context, rejected string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current, err := c.tokens.Access(ctx)
	if err != nil {
		return err
	}
	if current != "" && current != rejected {
		return nil
	}
	return c.refresh(ctx)
}

// refresh trades the stored refresh token for a new access token. Any failure clears
// both tokens; the caller is left to send the operator back to login.
func (c *Client) refresh(ctx context.Context) error {
	refreshToken, err := c.tokens.Refresh(ctx)
	if err != nil {
		return err
	}
	if refreshToken == "" {
		_ = c.tokens.Clear(ctx)
		return ErrNoRefreshToken
	}

	payload, _ := json.Marshal(map[string]string{"refresh": refreshToken})
	status, respBody, _, err := c.send(ctx, http.MethodPost, PathRefresh, nil, payload)
	if err == nil && status >= 400 {
		err = newError(status, respBody)
	}
	var pair tokenPair
	if err == nil {
		if jerr := json.Unmarshal(respBody, &pair); jerr != nil || pair.Access == "" {
			err = fmt.Errorf("refresh response carried no access token")
		}
	}
	if err != nil {
		if cerr := c.tokens.Clear(ctx); cerr != nil {
			config.LogError(c.log, "api", "refresh", "clear tokens", nil, cerr)
		}
		return err
	}
	return c.tokens.Save(ctx, pair.Access, pair.Refresh)
}

// send performs one request and also returns the bearer token it carried.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) (int, []byte, string, error) {
	u := c.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return 0, nil, "", fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	token, err := c.tokens.Access(ctx)
	if err != nil {
		return 0, nil, "", fmt.Errorf("read token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, token, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, token, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	return resp.StatusCode, respBody, token, nil
}

func isAuthPath(path string) bool {
	p := strings.Trim(path, "/")
	return p == PathLogin || p == PathRefresh
}
