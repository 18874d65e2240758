package api

import (
	"context"
	"fmt"
	"net/http"
)

type machineAction struct {
	MachineID int `json:"machine_id"`
}

type machineSubmission struct {
	ID         int    `json:"id"`
	Flag       string `json:"flag"`
	Difficulty int    `json:"difficulty"`
}

// Machine fetches a machine profile by ID or name.
func (c *Client) Machine(ctx context.Context, ident Identifier) (*Machine, error) {
	var out struct {
		Info *Machine `json:"info"`
	}
	if err := c.do(ctx, http.MethodGet, "/machine/profile/"+ident.pathSegment(), nil, &out); err != nil {
		return nil, fmt.Errorf("machine %s: %w", ident, err)
	}
	if out.Info == nil || out.Info.ID == 0 {
		return nil, fmt.Errorf("machine %s: %w", ident, ErrNotFound)
	}
	return out.Info, nil
}

// SpawnMachine requests a new instance and returns the resulting active
// instance.
func (c *Client) SpawnMachine(ctx context.Context, id int, releaseArena bool) (*MachineInstance, error) {
	path, body := "/vm/spawn", any(machineAction{MachineID: id})
	if releaseArena {
		path, body = "/release_arena/spawn", nil
	}

	var out messageResponse
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	if err := messageError(out.Message); err != nil {
		return nil, err
	}
	return c.ActiveMachine(ctx)
}

// StartMachinePlay marks the machine as being played. Some accounts need
// this before the platform reports the spawned instance.
func (c *Client) StartMachinePlay(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/machine/play/%d", id), nil, nil)
}

// ActiveMachine returns the account's running instance, or
// ErrNoActiveInstance.
func (c *Client) ActiveMachine(ctx context.Context) (*MachineInstance, error) {
	var out struct {
		Info *MachineInstance `json:"info"`
	}
	if err := c.do(ctx, http.MethodGet, "/machine/active", nil, &out); err != nil {
		return nil, err
	}
	if out.Info == nil || out.Info.ID == 0 {
		return nil, ErrNoActiveInstance
	}

	inst := out.Info
	if inst.IP == "" {
		profile, err := c.Machine(ctx, ByID(inst.ID))
		if err != nil {
			return nil, err
		}
		inst.IP = profile.IP
		if inst.Name == "" {
			inst.Name = profile.Name
		}
	}
	return inst, nil
}

func (c *Client) StopMachine(ctx context.Context, inst MachineInstance) error {
	if inst.ReleaseArena() {
		return c.do(ctx, http.MethodPost, "/release_arena/terminate", nil, nil)
	}
	return c.do(ctx, http.MethodPost, "/vm/terminate", machineAction{MachineID: inst.ID}, nil)
}

func (c *Client) ResetMachine(ctx context.Context, id int) error {
	var out messageResponse
	if err := c.do(ctx, http.MethodPost, "/vm/reset", machineAction{MachineID: id}, &out); err != nil {
		return err
	}
	return messageError(out.Message)
}

// SubmitMachineFlag submits a user or root flag and returns the platform's
// message.
func (c *Client) SubmitMachineFlag(ctx context.Context, id int, flag string, difficulty int) (string, error) {
	var out messageResponse
	body := machineSubmission{ID: id, Flag: flag, Difficulty: difficulty}
	if err := c.do(ctx, http.MethodPost, "/machine/own", body, &out); err != nil {
		return "", err
	}
	if err := messageError(out.Message); err != nil {
		return "", err
	}
	return out.Message, nil
}
