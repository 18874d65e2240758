// Package resource wraps one platform resource per type: a challenge, a
// machine, or the VPN server pool. Each is built empty, filled by Load, and
// then driven through its actions.
package resource

import (
	"errors"

	"go.uber.org/zap"

	"github.com/An00bRektn/htb-cli/internal/prompt"
	"github.com/An00bRektn/htb-cli/internal/ui"
)

var (
	ErrNotLoaded  = errors.New("resource not loaded")
	ErrNoDownload = errors.New("no downloadable files")
	ErrNoInstance = errors.New("no deployable instance")
	ErrNoServers  = errors.New("no VPN servers available")
)

// Env is what every resource needs besides its client.
type Env struct {
	Prompt prompt.Prompter
	Out    *ui.Printer
	Log    *zap.Logger
}

func (e Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
