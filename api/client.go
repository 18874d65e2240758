package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL   = "https://labs.hackthebox.com/api/v4"
	DefaultUserAgent = "htbcli/0.2"
	DefaultTimeout   = 30 * time.Second

	loginPath   = "/login"
	refreshPath = "/login/refresh"
)

type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// Client is an authenticated handle to the platform API.
type Client struct {
	http      *resty.Client
	log       *zap.Logger
	tokens    Tokens
	cachePath string
}

// NewClient returns a client that authenticates with the given tokens. It
// does not persist refreshed tokens anywhere.
func NewClient(opts Options, tokens Tokens) *Client {
	c := newClient(opts)
	c.tokens = tokens
	return c
}

func newClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", opts.UserAgent).
		SetLogger(log.Sugar())

	return &Client{http: rc, log: log}
}

// Tokens returns the credentials the client currently holds.
func (c *Client) Tokens() Tokens { return c.tokens }

// do sends a JSON request and decodes the JSON response into out (if non-nil).
// A 401 triggers one token refresh and one retry.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusUnauthorized && c.canRefresh(path) {
		if err := c.refresh(ctx); err != nil {
			return err
		}
		if resp, err = c.send(ctx, method, path, body); err != nil {
			return err
		}
	}

	if err := classify(resp.StatusCode(), resp.Body()); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if c.tokens.Access != "" {
		req.SetAuthToken(c.tokens.Access)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("took", resp.Time()),
	)
	return resp, nil
}

func (c *Client) canRefresh(path string) bool {
	return c.tokens.Refresh != "" && path != loginPath && path != refreshPath
}

type loginResponse struct {
	Message struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"message"`
}

func (r loginResponse) tokens() (Tokens, error) {
	if r.Message.AccessToken == "" {
		return Tokens{}, fmt.Errorf("%w: no access token in response", ErrMalformedResponse)
	}
	return Tokens{Access: r.Message.AccessToken, Refresh: r.Message.RefreshToken}, nil
}

func (c *Client) refresh(ctx context.Context) error {
	c.log.Debug("refreshing access token")

	var out loginResponse
	err := c.do(ctx, http.MethodPost, refreshPath, map[string]string{"refresh_token": c.tokens.Refresh}, &out)
	if err != nil {
		return fmt.Errorf("refreshing session: %w", asAuthError(err))
	}
	tokens, err := out.tokens()
	if err != nil {
		return fmt.Errorf("refreshing session: %w", err)
	}
	c.tokens = tokens

	if c.cachePath != "" {
		if err := writeCache(c.cachePath, tokens); err != nil {
			c.log.Warn("could not update credential cache", zap.String("path", c.cachePath), zap.Error(err))
		}
	}
	return nil
}

// asAuthError marks a rejected login or refresh as ErrUnauthorized unless the
// failure already has a more specific kind.
func asAuthError(err error) error {
	if e, ok := err.(*Error); ok && e.Kind == nil {
		e.Kind = ErrUnauthorized
	}
	return err
}

type messageResponse struct {
	Message string `json:"message"`
}
