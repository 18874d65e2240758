package resource

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/An00bRektn/htb-cli/api"
	"github.com/An00bRektn/htb-cli/internal/labnet"
)

// MachineClient is the slice of the platform API a Machine drives.
type MachineClient interface {
	Machine(ctx context.Context, ident api.Identifier) (*api.Machine, error)
	SpawnMachine(ctx context.Context, id int, releaseArena bool) (*api.MachineInstance, error)
	StartMachinePlay(ctx context.Context, id int) error
	ActiveMachine(ctx context.Context) (*api.MachineInstance, error)
	StopMachine(ctx context.Context, inst api.MachineInstance) error
	ResetMachine(ctx context.Context, id int) error
	SubmitMachineFlag(ctx context.Context, id int, flag string, difficulty int) (string, error)
}

type Machine struct {
	client MachineClient
	env    Env
	record *api.Machine
}

func NewMachine(client MachineClient, env Env) *Machine {
	return &Machine{client: client, env: env}
}

func (m *Machine) Load(ctx context.Context, ident api.Identifier) error {
	m.env.Out.Info("Accessing machine %s...", ident)
	rec, err := m.client.Machine(ctx, ident)
	if err != nil {
		return err
	}
	m.record = rec
	m.env.Out.Good("Machine %s (%s, %s) retrieved!", rec.Name, rec.OS, rec.Difficulty)
	return nil
}

func (m *Machine) Record() *api.Machine { return m.record }

// Spawn starts an instance and returns its address. When the spawn request
// fails it marks the machine as played and asks once for the active
// instance instead.
func (m *Machine) Spawn(ctx context.Context, releaseArena bool) (string, error) {
	if m.record == nil {
		return "", ErrNotLoaded
	}

	if releaseArena {
		m.env.Out.Info("Spawning %s in the Release Arena...", m.record.Name)
	} else {
		m.env.Out.Info("Spawning %s...", m.record.Name)
	}

	inst, err := m.client.SpawnMachine(ctx, m.record.ID, releaseArena)
	if err != nil {
		log := m.env.logger().With(zap.Int("machine", m.record.ID))
		log.Debug("spawn failed, falling back to play", zap.Error(err))
		if perr := m.client.StartMachinePlay(ctx, m.record.ID); perr != nil {
			log.Debug("play request failed", zap.Error(perr))
		}
		var aerr error
		inst, aerr = m.client.ActiveMachine(ctx)
		if aerr != nil {
			return "", fmt.Errorf("spawning %s: %w", m.record.Name, errors.Join(err, aerr))
		}
	}

	m.env.Out.Good("%s started @ %s", inst.Name, inst.IP)
	if n, ok := labnet.Lookup(inst.IP); ok {
		m.env.Out.Detail("%s network (%s)", n.Label, n.CIDR)
	}
	return inst.IP, nil
}

func (m *Machine) Submit(ctx context.Context, flag string, difficulty int) error {
	if m.record == nil {
		return ErrNotLoaded
	}

	m.env.Out.Info("Submitting flag for %s...", m.record.Name)
	msg, err := m.client.SubmitMachineFlag(ctx, m.record.ID, flag, difficulty)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Flag accepted!"
	}
	m.env.Out.Good("%s", msg)
	return nil
}

// StopInstance stops the account's active instance. With nothing running it
// reports so and succeeds. An instance still listed after the first stop
// gets a second one.
func (m *Machine) StopInstance(ctx context.Context) error {
	inst, err := m.client.ActiveMachine(ctx)
	if errors.Is(err, api.ErrNoActiveInstance) {
		m.env.Out.Info("No active machine, nothing to stop.")
		return nil
	}
	if err != nil {
		return err
	}

	m.env.Out.Info("Stopping %s...", inst.Name)
	if err := m.client.StopMachine(ctx, *inst); err != nil {
		return err
	}

	still, err := m.client.ActiveMachine(ctx)
	switch {
	case err == nil:
		m.env.logger().Debug("instance still active after stop", zap.String("machine", still.Name))
		if err := m.client.StopMachine(ctx, *still); err != nil {
			return err
		}
	case !errors.Is(err, api.ErrNoActiveInstance):
		m.env.logger().Debug("checking instance after stop", zap.Error(err))
	}

	m.env.Out.Good("%s stopped.", inst.Name)
	return nil
}

func (m *Machine) ResetInstance(ctx context.Context) error {
	inst, err := m.client.ActiveMachine(ctx)
	if err != nil {
		return err
	}

	m.env.Out.Info("Requesting a reset of %s...", inst.Name)
	if err := m.client.ResetMachine(ctx, inst.ID); err != nil {
		return err
	}
	m.env.Out.Good("%s will be reset shortly.", inst.Name)
	return nil
}
