package resource

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/An00bRektn/htb-cli/api"
	"github.com/An00bRektn/htb-cli/internal/prompt"
	"github.com/An00bRektn/htb-cli/internal/ui"
)

func testEnv(answers ...string) (Env, *prompt.Script, *bytes.Buffer) {
	var out bytes.Buffer
	script := &prompt.Script{Answers: answers}
	return Env{Prompt: script, Out: ui.New(&out)}, script, &out
}

// fakeAPI records every call and serves canned records. It satisfies all
// three client interfaces.
type fakeAPI struct {
	calls []string

	challenge *api.Challenge
	machine   *api.Machine
	active    []*api.MachineInstance // consumed one per ActiveMachine call; nil means none
	servers   []api.VPNServer
	current   *api.VPNServer

	spawnErr  error
	submitErr error
	stopErr   error
}

func (f *fakeAPI) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func writeFile(dest, content string) error {
	return os.WriteFile(dest, []byte(content), 0o644)
}

func (f *fakeAPI) Challenge(_ context.Context, ident api.Identifier) (*api.Challenge, error) {
	f.record("challenge %s", ident)
	if f.challenge == nil {
		return nil, api.ErrNotFound
	}
	return f.challenge, nil
}

func (f *fakeAPI) DownloadChallenge(_ context.Context, id int, dest string) error {
	f.record("download %d", id)
	return writeFile(dest, "zip")
}

func (f *fakeAPI) StartChallenge(_ context.Context, id int) (*api.ChallengeInstance, error) {
	f.record("start %d", id)
	return &api.ChallengeInstance{IP: "159.65.20.166", Port: 31337}, nil
}

func (f *fakeAPI) StopChallenge(_ context.Context, id int) error {
	f.record("stop %d", id)
	return f.stopErr
}

func (f *fakeAPI) SubmitChallengeFlag(_ context.Context, id int, flag string, difficulty int) (string, error) {
	f.record("submit %d %s %d", id, flag, difficulty)
	return "", f.submitErr
}

func (f *fakeAPI) Machine(_ context.Context, ident api.Identifier) (*api.Machine, error) {
	f.record("machine %s", ident)
	if f.machine == nil {
		return nil, api.ErrNotFound
	}
	return f.machine, nil
}

func (f *fakeAPI) SpawnMachine(_ context.Context, id int, releaseArena bool) (*api.MachineInstance, error) {
	f.record("spawn %d %v", id, releaseArena)
	if f.spawnErr != nil {
		return nil, f.spawnErr
	}
	return &api.MachineInstance{ID: id, Name: f.machine.Name, IP: "10.10.11.5"}, nil
}

func (f *fakeAPI) StartMachinePlay(_ context.Context, id int) error {
	f.record("play %d", id)
	return nil
}

func (f *fakeAPI) ActiveMachine(context.Context) (*api.MachineInstance, error) {
	f.record("active")
	if len(f.active) == 0 {
		return nil, api.ErrNoActiveInstance
	}
	inst := f.active[0]
	f.active = f.active[1:]
	if inst == nil {
		return nil, api.ErrNoActiveInstance
	}
	return inst, nil
}

func (f *fakeAPI) StopMachine(_ context.Context, inst api.MachineInstance) error {
	f.record("terminate %d", inst.ID)
	return f.stopErr
}

func (f *fakeAPI) ResetMachine(_ context.Context, id int) error {
	f.record("reset %d", id)
	return nil
}

func (f *fakeAPI) SubmitMachineFlag(_ context.Context, id int, flag string, difficulty int) (string, error) {
	f.record("own %d %s %d", id, flag, difficulty)
	return "Lame user is now owned.", f.submitErr
}

func (f *fakeAPI) VPNServers(_ context.Context, releaseArena bool) ([]api.VPNServer, error) {
	f.record("servers %v", releaseArena)
	return f.servers, nil
}

func (f *fakeAPI) CurrentVPNServer(_ context.Context, releaseArena bool) (*api.VPNServer, error) {
	f.record("current %v", releaseArena)
	if f.current == nil {
		return nil, api.ErrNotFound
	}
	return f.current, nil
}

func (f *fakeAPI) SwitchVPNServer(_ context.Context, id int) error {
	f.record("switch %d", id)
	for _, s := range f.servers {
		if s.ID == id {
			srv := s
			f.current = &srv
		}
	}
	return nil
}

func (f *fakeAPI) DownloadVPNConfig(_ context.Context, id int, dest string, tcp bool) error {
	f.record("ovpn %d %v", id, tcp)
	return writeFile(dest, "client\n")
}
