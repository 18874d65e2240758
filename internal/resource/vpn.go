package resource

import (
	"context"
	"strconv"
	"strings"

	"github.com/An00bRektn/htb-cli/api"
)

// VPNClient is the slice of the platform API a VPN drives.
type VPNClient interface {
	VPNServers(ctx context.Context, releaseArena bool) ([]api.VPNServer, error)
	CurrentVPNServer(ctx context.Context, releaseArena bool) (*api.VPNServer, error)
	SwitchVPNServer(ctx context.Context, id int) error
	DownloadVPNConfig(ctx context.Context, id int, dest string, tcp bool) error
}

// ServerSet keeps the servers in platform order next to their lowercased
// names.
type ServerSet struct {
	servers []api.VPNServer
	names   []string
}

func NewServerSet(servers []api.VPNServer) ServerSet {
	s := ServerSet{
		servers: make([]api.VPNServer, 0, len(servers)),
		names:   make([]string, 0, len(servers)),
	}
	for _, srv := range servers {
		s.servers = append(s.servers, srv)
		s.names = append(s.names, strings.ToLower(srv.FriendlyName))
	}
	return s
}

func (s ServerSet) Len() int { return len(s.servers) }

func (s ServerSet) At(i int) api.VPNServer { return s.servers[i] }

// Lookup matches name against the friendly names, ignoring case.
func (s ServerSet) Lookup(name string) (api.VPNServer, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range s.names {
		if n == name {
			return s.servers[i], true
		}
	}
	return api.VPNServer{}, false
}

type VPN struct {
	client       VPNClient
	env          Env
	releaseArena bool
	set          ServerSet
	loaded       bool
}

func NewVPN(client VPNClient, env Env) *VPN {
	return &VPN{client: client, env: env}
}

func (v *VPN) Load(ctx context.Context, releaseArena bool) error {
	if releaseArena {
		v.env.Out.Info("Getting Release Arena VPN servers...")
	} else {
		v.env.Out.Info("Getting VPN servers...")
	}
	servers, err := v.client.VPNServers(ctx, releaseArena)
	if err != nil {
		return err
	}
	v.set = NewServerSet(servers)
	v.releaseArena = releaseArena
	v.loaded = true
	v.env.Out.Good("Found %d servers.", v.set.Len())
	return nil
}

func (v *VPN) Servers() ServerSet { return v.set }

// Switch moves the account to the server named target. An empty target,
// "menu", or a name that matches nothing brings up the server menu.
func (v *VPN) Switch(ctx context.Context, target string) error {
	if !v.loaded {
		return ErrNotLoaded
	}

	if target != "" && !strings.EqualFold(target, "menu") {
		v.env.Out.Info("Finding %s...", target)
		if srv, ok := v.set.Lookup(target); ok {
			return v.switchTo(ctx, srv)
		}
		v.env.Out.Important("Couldn't find a server named %s.", target)
	}
	return v.menu(ctx)
}

func (v *VPN) menu(ctx context.Context) error {
	n := v.set.Len()
	if n == 0 {
		return ErrNoServers
	}

	v.env.Out.Info("Available servers:")
	for i := 0; i < n; i++ {
		srv := v.set.At(i)
		v.env.Out.Item("%d -> %s (users: %d)", i, srv.FriendlyName, srv.CurrentClients)
	}

	for {
		answer, err := v.env.Prompt.Line("Index of the server to switch to: ")
		if err != nil {
			return err
		}
		i, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil && i >= 0 && i < n {
			return v.switchTo(ctx, v.set.At(i))
		}
		v.env.Out.Important("Enter a number between 0 and %d.", n-1)
	}
}

func (v *VPN) switchTo(ctx context.Context, srv api.VPNServer) error {
	v.env.Out.Info("Switching to %s...", srv.FriendlyName)
	if err := v.client.SwitchVPNServer(ctx, srv.ID); err != nil {
		return err
	}
	v.env.Out.Good("Switched to %s!", srv.FriendlyName)
	return nil
}

// Download writes the config pack of the currently assigned server.
func (v *VPN) Download(ctx context.Context, path string, tcp bool) error {
	if !v.loaded {
		return ErrNotLoaded
	}

	srv, err := v.client.CurrentVPNServer(ctx, v.releaseArena)
	if err != nil {
		return err
	}
	v.env.Out.Info("Downloading the config pack for %s...", srv.FriendlyName)
	return save(v.env, path, srv.FriendlyName, ".ovpn", func(dest string) error {
		return v.client.DownloadVPNConfig(ctx, srv.ID, dest, tcp)
	})
}
