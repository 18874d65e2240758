// Package session turns the configured cache path and the user's answers
// into an authenticated API client.
package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/An00bRektn/htb-cli/api"
	"github.com/An00bRektn/htb-cli/internal/paths"
	"github.com/An00bRektn/htb-cli/internal/prompt"
	"github.com/An00bRektn/htb-cli/internal/ui"
)

// ErrLogin marks failures of an interactive login.
var ErrLogin = errors.New("login failed")

type Authenticator interface {
	Login(ctx context.Context, email, password, cachePath string) (*api.Client, error)
	Resume(ctx context.Context, cachePath string) (*api.Client, error)
}

type Options struct {
	// CachePath is where tokens are kept between runs. Empty disables the
	// cache.
	CachePath string
	// Inline forces a credential prompt even when a cache exists.
	Inline bool
}

type Bootstrapper struct {
	auth   Authenticator
	prompt prompt.Prompter
	out    *ui.Printer
	log    *zap.Logger
}

func New(auth Authenticator, p prompt.Prompter, out *ui.Printer, log *zap.Logger) *Bootstrapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bootstrapper{auth: auth, prompt: p, out: out, log: log}
}

// Open returns an authenticated client or an error. It never returns both.
func (b *Bootstrapper) Open(ctx context.Context, opts Options) (*api.Client, error) {
	path := paths.Expand(strings.TrimSpace(opts.CachePath))
	if path == "" || opts.Inline {
		b.log.Debug("no cache in use, logging in")
		return b.login(ctx, "")
	}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		create, err := b.prompt.Confirm(fmt.Sprintf("No cache found at %s, do you want to create one", path))
		if err != nil {
			return nil, err
		}
		if !create {
			path = ""
		}
		return b.login(ctx, path)
	case err != nil:
		return nil, err
	}

	b.log.Debug("resuming from cache", zap.String("path", path))
	b.out.Info("Loading credentials from %s...", path)
	c, err := b.auth.Resume(ctx, path)
	if err != nil {
		return nil, err
	}
	b.out.Good("Credentials loaded!")
	return c, nil
}

func (b *Bootstrapper) login(ctx context.Context, cachePath string) (*api.Client, error) {
	email, err := b.prompt.Line("Email: ")
	if err != nil {
		return nil, err
	}
	password, err := b.prompt.Password("Password: ")
	if err != nil {
		return nil, err
	}

	b.out.Info("Authenticating...")
	c, err := b.auth.Login(ctx, strings.TrimSpace(email), password, cachePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLogin, err)
	}
	if cachePath != "" {
		b.out.Good("Authenticated, credentials cached at %s.", cachePath)
	} else {
		b.out.Good("Authenticated!")
	}
	return c, nil
}
