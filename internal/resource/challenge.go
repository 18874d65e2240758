package resource

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/An00bRektn/htb-cli/api"
)

// ChallengeClient is the slice of the platform API a Challenge drives.
type ChallengeClient interface {
	Challenge(ctx context.Context, ident api.Identifier) (*api.Challenge, error)
	DownloadChallenge(ctx context.Context, id int, dest string) error
	StartChallenge(ctx context.Context, id int) (*api.ChallengeInstance, error)
	StopChallenge(ctx context.Context, id int) error
	SubmitChallengeFlag(ctx context.Context, id int, flag string, difficulty int) (string, error)
}

type Challenge struct {
	client ChallengeClient
	env    Env
	record *api.Challenge
}

func NewChallenge(client ChallengeClient, env Env) *Challenge {
	return &Challenge{client: client, env: env}
}

// Load looks the challenge up. Every other method needs a successful Load.
func (c *Challenge) Load(ctx context.Context, ident api.Identifier) error {
	c.env.Out.Info("Accessing challenge %s...", ident)
	rec, err := c.client.Challenge(ctx, ident)
	if err != nil {
		return err
	}
	c.record = rec
	c.env.Out.Good("Challenge %s (%s, %s) retrieved!", rec.Name, rec.Category, rec.Difficulty)
	return nil
}

func (c *Challenge) Record() *api.Challenge { return c.record }

func (c *Challenge) DownloadFiles(ctx context.Context, path string) error {
	if c.record == nil {
		return ErrNotLoaded
	}
	if !c.record.HasDownload {
		return fmt.Errorf("%s: %w", c.record.Name, ErrNoDownload)
	}

	c.env.Out.Info("Downloading files for %s...", c.record.Name)
	return save(c.env, path, c.record.Name, ".zip", func(dest string) error {
		return c.client.DownloadChallenge(ctx, c.record.ID, dest)
	})
}

// StartInstance starts the challenge's container and returns its "ip:port".
func (c *Challenge) StartInstance(ctx context.Context) (string, error) {
	if c.record == nil {
		return "", ErrNotLoaded
	}
	if !c.record.HasDocker {
		return "", fmt.Errorf("%s: %w", c.record.Name, ErrNoInstance)
	}

	c.env.Out.Info("Starting instance of %s...", c.record.Name)
	inst, err := c.client.StartChallenge(ctx, c.record.ID)
	if err != nil {
		return "", err
	}
	addr := inst.Addr()
	c.env.Out.Good("Instance started @ %s", addr)
	return addr, nil
}

func (c *Challenge) StopInstance(ctx context.Context) error {
	if c.record == nil {
		return ErrNotLoaded
	}
	if !c.record.HasDocker {
		return fmt.Errorf("%s: %w", c.record.Name, ErrNoInstance)
	}

	c.env.Out.Info("Stopping instance of %s...", c.record.Name)
	if err := c.client.StopChallenge(ctx, c.record.ID); err != nil {
		return err
	}
	c.env.Out.Good("Instance stopped.")
	return nil
}

// ResetInstance stops the instance and starts a fresh one. A failed stop
// is reported but does not prevent the start.
func (c *Challenge) ResetInstance(ctx context.Context) (string, error) {
	if err := c.StopInstance(ctx); err != nil {
		if c.record == nil || !c.record.HasDocker {
			return "", err
		}
		c.env.logger().Debug("stop before reset failed", zap.Error(err))
		c.env.Out.Important("Couldn't stop the running instance: %v", err)
	}
	return c.StartInstance(ctx)
}

func (c *Challenge) Submit(ctx context.Context, flag string, difficulty int) error {
	if c.record == nil {
		return ErrNotLoaded
	}

	c.env.Out.Info("Submitting flag for %s...", c.record.Name)
	if _, err := c.client.SubmitChallengeFlag(ctx, c.record.ID, flag, difficulty); err != nil {
		return err
	}
	c.env.Out.Good("Congratulations! %s (%s, %d points) has been solved!", c.record.Name, c.record.Difficulty, c.record.Points)
	return nil
}
