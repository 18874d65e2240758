package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Authenticator produces authenticated clients, either by logging in with
// credentials or by resuming from a credential cache file.
type Authenticator struct {
	opts Options
}

func NewAuthenticator(opts Options) *Authenticator {
	return &Authenticator{opts: opts}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// Login authenticates with email and password. When cachePath is not empty
// the resulting tokens are written there and kept up to date on refresh.
func (a *Authenticator) Login(ctx context.Context, email, password, cachePath string) (*Client, error) {
	c := newClient(a.opts)

	var out loginResponse
	err := c.do(ctx, http.MethodPost, loginPath, loginRequest{Email: email, Password: password, Remember: true}, &out)
	if err != nil {
		return nil, fmt.Errorf("login: %w", asAuthError(err))
	}
	tokens, err := out.tokens()
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	c.tokens = tokens

	if cachePath != "" {
		if err := writeCache(cachePath, tokens); err != nil {
			return nil, err
		}
		c.cachePath = cachePath
		c.log.Debug("credential cache written", zap.String("path", cachePath))
	}
	return c, nil
}

// Resume loads tokens from an existing cache file. No request is made; an
// expired access token is refreshed on first use.
func (a *Authenticator) Resume(_ context.Context, cachePath string) (*Client, error) {
	tokens, err := readCache(cachePath)
	if err != nil {
		return nil, err
	}
	c := newClient(a.opts)
	c.tokens = tokens
	c.cachePath = cachePath
	return c, nil
}

func readCache(path string) (Tokens, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Tokens{}, fmt.Errorf("reading credential cache: %w", err)
	}
	if info.IsDir() {
		return Tokens{}, fmt.Errorf("%w: %s", ErrCacheIsDirectory, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tokens{}, fmt.Errorf("reading credential cache: %w", err)
	}

	var tokens Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return Tokens{}, fmt.Errorf("%w: %s: %v", ErrMalformedCache, path, err)
	}
	if tokens.Access == "" {
		return Tokens{}, fmt.Errorf("%w: %s has no access_token", ErrCacheAttribute, path)
	}
	return tokens, nil
}

// writeCache stores tokens owner-only, creating the parent directory.
func writeCache(path string, tokens Tokens) error {
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credential cache: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating credential cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing credential cache: %w", err)
	}
	return nil
}
