// Package dispatch runs one subcommand: it opens the session, loads the
// resource, and performs the requested actions in a fixed order.
package dispatch

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/An00bRektn/htb-cli/api"
	"github.com/An00bRektn/htb-cli/internal/command"
	"github.com/An00bRektn/htb-cli/internal/resource"
)

const RateLimitNotice = "Too many requests! Wait at least 30 seconds before trying again."

// Client is everything the resources need from the platform. *api.Client
// implements it.
type Client interface {
	resource.ChallengeClient
	resource.MachineClient
	resource.VPNClient
}

// Opener authenticates. The dispatcher calls it at most once.
type Opener func(ctx context.Context) (Client, error)

// Dispatcher returns only fatal errors: a failed session or a failed
// resource lookup. Action failures are reported as they happen.
type Dispatcher struct {
	open   Opener
	env    resource.Env
	log    *zap.Logger
	client Client

	rateLimited bool
}

func New(open Opener, env resource.Env) *Dispatcher {
	log := env.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{open: open, env: env, log: log}
}

// RateLimited reports whether the back-off notice has been printed.
func (d *Dispatcher) RateLimited() bool { return d.rateLimited }

func (d *Dispatcher) session(ctx context.Context) (Client, error) {
	if d.client != nil {
		return d.client, nil
	}
	c, err := d.open(ctx)
	if err != nil {
		return nil, err
	}
	d.client = c
	return c, nil
}

func (d *Dispatcher) Challenge(ctx context.Context, cmd command.Challenge) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	client, err := d.session(ctx)
	if err != nil {
		return err
	}

	ch := resource.NewChallenge(client, d.env)
	if err := ch.Load(ctx, cmd.Target); err != nil {
		return err
	}

	if cmd.Path != "" {
		d.run("download", func() error { return ch.DownloadFiles(ctx, cmd.Path) })
	}
	if cmd.Start {
		d.run("start", func() error {
			_, err := ch.StartInstance(ctx)
			return err
		})
	}
	if cmd.Stop {
		d.run("stop", func() error { return ch.StopInstance(ctx) })
	}
	if cmd.Reset {
		d.run("reset", func() error {
			_, err := ch.ResetInstance(ctx)
			return err
		})
	}
	d.submit(cmd.Submission, func(flag string, difficulty int) error {
		return ch.Submit(ctx, flag, difficulty)
	})
	return nil
}

func (d *Dispatcher) Machine(ctx context.Context, cmd command.Machine) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	client, err := d.session(ctx)
	if err != nil {
		return err
	}

	m := resource.NewMachine(client, d.env)
	if err := m.Load(ctx, cmd.Target); err != nil {
		return err
	}

	if cmd.Spawn {
		d.run("spawn", func() error {
			_, err := m.Spawn(ctx, cmd.ReleaseArena)
			return err
		})
	}
	d.submit(cmd.Submission, func(flag string, difficulty int) error {
		return m.Submit(ctx, flag, difficulty)
	})
	if cmd.Stop {
		d.run("stop", func() error { return m.StopInstance(ctx) })
	}
	if cmd.Reset {
		d.run("reset", func() error { return m.ResetInstance(ctx) })
	}
	return nil
}

func (d *Dispatcher) VPN(ctx context.Context, cmd command.VPN) error {
	client, err := d.session(ctx)
	if err != nil {
		return err
	}

	v := resource.NewVPN(client, d.env)
	if err := v.Load(ctx, cmd.ReleaseArena); err != nil {
		return err
	}

	if cmd.Switch == nil && cmd.Download == "" {
		d.env.Out.Important("Nothing to do, use --switch or --download.")
		return nil
	}
	if cmd.Switch != nil {
		d.run("switch", func() error { return v.Switch(ctx, *cmd.Switch) })
	}
	if cmd.Download != "" {
		d.run("download", func() error { return v.Download(ctx, cmd.Download, cmd.TCP) })
	}
	return nil
}

func (d *Dispatcher) submit(s command.Submission, fn func(flag string, difficulty int) error) {
	switch {
	case s.Complete():
		d.run("submit", func() error { return fn(*s.Flag, *s.Difficulty) })
	case s.Partial():
		d.env.Out.Important("You need a flag and a difficulty to submit!")
	}
}

// run performs one action and reports its error. Once the platform has
// rate limited us the remaining actions are skipped.
func (d *Dispatcher) run(action string, fn func() error) {
	if d.rateLimited {
		d.log.Debug("skipping action", zap.String("action", action))
		return
	}
	d.log.Debug("running action", zap.String("action", action))
	if err := fn(); err != nil {
		d.log.Debug("action failed", zap.String("action", action), zap.Error(err))
		d.report(err)
	}
}

func (d *Dispatcher) report(err error) {
	out := d.env.Out
	switch {
	case errors.Is(err, api.ErrRateLimited):
		if !d.rateLimited {
			out.Important(RateLimitNotice)
		}
		d.rateLimited = true
	case errors.Is(err, api.ErrIncorrectFlag):
		out.Error("Incorrect flag!")
	case errors.Is(err, api.ErrUserAlreadySubmitted):
		out.Important("You've already submitted the user flag!")
	case errors.Is(err, api.ErrRootAlreadySubmitted):
		out.Important("You've already submitted the root flag!")
	case errors.Is(err, api.ErrTooManyResets):
		out.Error("Too many reset attempts, try again later.")
	case errors.Is(err, api.ErrNoActiveInstance):
		out.Important("You have no active machine.")
	case errors.Is(err, resource.ErrNoDownload):
		out.Important("This challenge has no files to download.")
	case errors.Is(err, resource.ErrNoInstance):
		out.Important("This challenge has no instance to start.")
	default:
		out.Error("We encountered an error: %v", err)
	}
}
