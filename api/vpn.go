package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
)

type serverGroup struct {
	Servers map[string]VPNServer `json:"servers"`
}

type serversResponse struct {
	Data struct {
		Assigned *VPNServer                        `json:"assigned"`
		Options  map[string]map[string]serverGroup `json:"options"`
	} `json:"data"`
}

func product(releaseArena bool) string {
	if releaseArena {
		return "release_arena"
	}
	return "labs"
}

func (c *Client) listServers(ctx context.Context, releaseArena bool) (*serversResponse, error) {
	var out serversResponse
	path := "/connections/servers?product=" + product(releaseArena)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("listing VPN servers: %w", err)
	}
	return &out, nil
}

// VPNServers returns every server of the pool ordered by ID.
func (c *Client) VPNServers(ctx context.Context, releaseArena bool) ([]VPNServer, error) {
	resp, err := c.listServers(ctx, releaseArena)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var servers []VPNServer
	for _, region := range resp.Data.Options {
		for _, group := range region {
			for _, s := range group.Servers {
				if seen[s.ID] {
					continue
				}
				seen[s.ID] = true
				servers = append(servers, s)
			}
		}
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].ID < servers[j].ID })
	return servers, nil
}

// CurrentVPNServer returns the server the account is assigned to.
func (c *Client) CurrentVPNServer(ctx context.Context, releaseArena bool) (*VPNServer, error) {
	resp, err := c.listServers(ctx, releaseArena)
	if err != nil {
		return nil, err
	}
	if resp.Data.Assigned == nil || resp.Data.Assigned.ID == 0 {
		return nil, fmt.Errorf("assigned VPN server: %w", ErrNotFound)
	}
	return resp.Data.Assigned, nil
}

func (c *Client) SwitchVPNServer(ctx context.Context, id int) error {
	var out struct {
		Status  *bool  `json:"status"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/connections/servers/switch/%d", id), nil, &out); err != nil {
		return err
	}
	if out.Status != nil && !*out.Status {
		return &Error{StatusCode: http.StatusOK, Message: out.Message, Kind: kindOf(out.Message)}
	}
	return nil
}

// DownloadVPNConfig saves the OpenVPN profile of server id to dest.
func (c *Client) DownloadVPNConfig(ctx context.Context, id int, dest string, tcp bool) error {
	path := fmt.Sprintf("/access/ovpnfile/%d/0", id)
	if tcp {
		path += "/1"
	}
	return c.download(ctx, path, dest)
}
