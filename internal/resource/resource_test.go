package resource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/An00bRektn/htb-cli/api"
)

var weatherApp = &api.Challenge{
	ID: 196, Name: "Weather App", Category: "Web", Difficulty: "Easy",
	Points: 30, HasDownload: true, HasDocker: true,
}

func TestChallengeNeedsLoad(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	c := NewChallenge(&fakeAPI{}, env)
	if _, err := c.StartInstance(context.Background()); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("StartInstance before Load = %v, want ErrNotLoaded", err)
	}
}

func TestChallengeLoadNotFound(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	c := NewChallenge(&fakeAPI{}, env)
	if err := c.Load(context.Background(), api.ByName("nope")); !errors.Is(err, api.ErrNotFound) {
		t.Errorf("Load = %v, want ErrNotFound", err)
	}
	if c.Record() != nil {
		t.Error("record set after failed Load")
	}
}

func TestChallengeWithoutDownloadOrDocker(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := &fakeAPI{challenge: &api.Challenge{ID: 1, Name: "Quiz"}}
	env, _, _ := testEnv()
	c := NewChallenge(fake, env)
	if err := c.Load(ctx, api.ByID(1)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := c.DownloadFiles(ctx, t.TempDir()); !errors.Is(err, ErrNoDownload) {
		t.Errorf("DownloadFiles = %v, want ErrNoDownload", err)
	}
	if _, err := c.StartInstance(ctx); !errors.Is(err, ErrNoInstance) {
		t.Errorf("StartInstance = %v, want ErrNoInstance", err)
	}
	if len(fake.calls) != 1 {
		t.Errorf("calls = %v, want only the lookup", fake.calls)
	}
}

func TestChallengeDownloadIntoDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := &fakeAPI{challenge: weatherApp}
	env, _, _ := testEnv()
	c := NewChallenge(fake, env)
	if err := c.Load(ctx, api.ByName("Weather App")); err != nil {
		t.Fatalf("Load: %v", err)
	}

	dir := t.TempDir()
	if err := c.DownloadFiles(ctx, dir); err != nil {
		t.Fatalf("DownloadFiles: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Weather App.zip")); err != nil {
		t.Errorf("archive not written: %v", err)
	}
}

func TestChallengeResetStopsThenStarts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := &fakeAPI{challenge: weatherApp, stopErr: errors.New("not running")}
	env, _, out := testEnv()
	c := NewChallenge(fake, env)
	if err := c.Load(ctx, api.ByID(196)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	addr, err := c.ResetInstance(ctx)
	if err != nil {
		t.Fatalf("ResetInstance: %v", err)
	}
	if addr != "159.65.20.166:31337" {
		t.Errorf("addr = %q", addr)
	}
	want := []string{"challenge 196", "stop 196", "start 196"}
	if !reflect.DeepEqual(fake.calls, want) {
		t.Errorf("calls = %v, want %v", fake.calls, want)
	}
	if !strings.Contains(out.String(), "not running") {
		t.Errorf("stop failure not reported:\n%s", out)
	}
}

func TestChallengeSubmitIncorrect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := &fakeAPI{challenge: weatherApp, submitErr: &api.Error{Message: "Incorrect flag!", Kind: api.ErrIncorrectFlag}}
	env, _, out := testEnv()
	c := NewChallenge(fake, env)
	if err := c.Load(ctx, api.ByID(196)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := c.Submit(ctx, "HTB{nope}", 30); !errors.Is(err, api.ErrIncorrectFlag) {
		t.Errorf("Submit = %v, want ErrIncorrectFlag", err)
	}
	if strings.Contains(out.String(), "Congratulations") {
		t.Error("congratulated on an incorrect flag")
	}
}

var lame = &api.Machine{ID: 1, Name: "Lame", OS: "Linux", Difficulty: "Easy", Points: 20}

func TestMachineSpawn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := &fakeAPI{machine: lame}
	env, _, out := testEnv()
	m := NewMachine(fake, env)
	if err := m.Load(ctx, api.ByName("Lame")); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ip, err := m.Spawn(ctx, false)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if ip != "10.10.11.5" {
		t.Errorf("ip = %q", ip)
	}
	if !strings.Contains(out.String(), "Labs network") {
		t.Errorf("network detail missing:\n%s", out)
	}
}

func TestMachineSpawnFallback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := &fakeAPI{
		machine:  lame,
		spawnErr: errors.New("spawn refused"),
		active:   []*api.MachineInstance{{ID: 1, Name: "Lame", IP: "10.129.4.2"}},
	}
	env, _, _ := testEnv()
	m := NewMachine(fake, env)
	if err := m.Load(ctx, api.ByID(1)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ip, err := m.Spawn(ctx, true)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if ip != "10.129.4.2" {
		t.Errorf("ip = %q", ip)
	}
	want := []string{"machine 1", "spawn 1 true", "play 1", "active"}
	if !reflect.DeepEqual(fake.calls, want) {
		t.Errorf("calls = %v, want %v", fake.calls, want)
	}
}

func TestMachineSpawnFallbackFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	spawnErr := errors.New("spawn refused")
	fake := &fakeAPI{machine: lame, spawnErr: spawnErr}
	env, _, _ := testEnv()
	m := NewMachine(fake, env)
	if err := m.Load(ctx, api.ByID(1)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, err := m.Spawn(ctx, false)
	if !errors.Is(err, spawnErr) || !errors.Is(err, api.ErrNoActiveInstance) {
		t.Errorf("Spawn = %v, want both causes", err)
	}
}

func TestMachineStop(t *testing.T) {
	t.Parallel()

	inst := &api.MachineInstance{ID: 1, Name: "Lame"}
	tests := []struct {
		name   string
		active []*api.MachineInstance
		want   []string
	}{
		{"nothing running", nil, []string{"active"}},
		{"stops once", []*api.MachineInstance{inst, nil}, []string{"active", "terminate 1", "active"}},
		{"stops twice", []*api.MachineInstance{inst, inst}, []string{"active", "terminate 1", "active", "terminate 1"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeAPI{active: tt.active}
			env, _, _ := testEnv()
			if err := NewMachine(fake, env).StopInstance(context.Background()); err != nil {
				t.Fatalf("StopInstance: %v", err)
			}
			if !reflect.DeepEqual(fake.calls, tt.want) {
				t.Errorf("calls = %v, want %v", fake.calls, tt.want)
			}
		})
	}
}

func TestMachineResetWithoutInstance(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{}
	env, _, _ := testEnv()
	err := NewMachine(fake, env).ResetInstance(context.Background())
	if !errors.Is(err, api.ErrNoActiveInstance) {
		t.Errorf("ResetInstance = %v, want ErrNoActiveInstance", err)
	}
}

var servers = []api.VPNServer{
	{ID: 1, FriendlyName: "US VIP 1", CurrentClients: 12},
	{ID: 2, FriendlyName: "EU Free 2", CurrentClients: 40},
	{ID: 3, FriendlyName: "AU VIP 1", CurrentClients: 3},
}

func TestServerSetLookup(t *testing.T) {
	t.Parallel()

	set := NewServerSet(servers)
	if set.Len() != len(servers) {
		t.Fatalf("Len = %d, want %d", set.Len(), len(servers))
	}
	for i, s := range servers {
		if set.At(i) != s {
			t.Errorf("At(%d) = %+v, want %+v", i, set.At(i), s)
		}
	}
	if got, ok := set.Lookup("  eu FREE 2 "); !ok || got.ID != 2 {
		t.Errorf("Lookup(eu free 2) = %+v, %v", got, ok)
	}
	if _, ok := set.Lookup("EU Free 3"); ok {
		t.Error("Lookup matched a missing server")
	}
}

func TestVPNSwitchByName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := &fakeAPI{servers: servers}
	env, script, _ := testEnv()
	v := NewVPN(fake, env)
	if err := v.Load(ctx, false); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := v.Switch(ctx, "au vip 1"); err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if fake.current == nil || fake.current.ID != 3 {
		t.Errorf("current = %+v, want server 3", fake.current)
	}
	if len(script.Asked) != 0 {
		t.Errorf("menu shown for a matching name: %v", script.Asked)
	}
}

func TestVPNMenuRepromptsUntilValid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := &fakeAPI{servers: servers}
	env, script, _ := testEnv("abc", "3", "-1", "1")
	v := NewVPN(fake, env)
	if err := v.Load(ctx, false); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := v.Switch(ctx, "Nowhere 9"); err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if len(script.Asked) != 4 {
		t.Errorf("asked %d times, want 4", len(script.Asked))
	}
	if fake.current == nil || fake.current.ID != 2 {
		t.Errorf("current = %+v, want server 2", fake.current)
	}
}

func TestVPNMenuWithoutServers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env, _, _ := testEnv()
	v := NewVPN(&fakeAPI{}, env)
	if err := v.Load(ctx, true); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := v.Switch(ctx, "menu"); !errors.Is(err, ErrNoServers) {
		t.Errorf("Switch = %v, want ErrNoServers", err)
	}
}

func TestVPNDownloadKeepsTCP(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := &fakeAPI{servers: servers, current: &servers[0]}
	dir := t.TempDir()
	existing := filepath.Join(dir, "lab.ovpn")
	if err := os.WriteFile(existing, []byte("old"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	env, _, _ := testEnv("y")
	v := NewVPN(fake, env)
	if err := v.Load(ctx, false); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := v.Download(ctx, dir, true); err != nil {
		t.Fatalf("Download into dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "US VIP 1.ovpn")); err != nil {
		t.Errorf("config not written: %v", err)
	}
	if err := v.Download(ctx, existing, true); err != nil {
		t.Fatalf("Download over file: %v", err)
	}

	want := []string{"servers false", "current false", "ovpn 1 true", "current false", "ovpn 1 true"}
	if !reflect.DeepEqual(fake.calls, want) {
		t.Errorf("calls = %v, want %v", fake.calls, want)
	}
}
