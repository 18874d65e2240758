package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/An00bRektn/htb-cli/internal/command"
	"github.com/An00bRektn/htb-cli/internal/ui"
)

type vpnOptions struct {
	switchTo     string
	releaseArena bool
	tcp          bool
	download     string
}

func (a *app) vpnCmd() *cobra.Command {
	var o vpnOptions
	c := &cobra.Command{
		Use:   "vpn",
		Short: "Switch VPN servers and download config packs",
		Long: `Switch the account to another VPN server, then download the config
pack of whichever server is assigned.

Pass "menu" to --switch to pick a server from a list.

Examples:
  htbcli vpn --switch "EU Free 1"
  htbcli vpn -s menu -d ~/vpn -t
  htbcli vpn --release-arena -d ~/vpn/arena.ovpn`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value := o.command(cmd.Flags())
			a.summarize(o.rows(value))
			return a.dispatcher.VPN(cmd.Context(), value)
		},
	}

	fs := c.Flags()
	fs.StringVarP(&o.switchTo, "switch", "s", "", `server to switch to, or "menu"`)
	fs.BoolVar(&o.releaseArena, "release-arena", false, "use the Release Arena servers")
	fs.BoolVarP(&o.tcp, "tcp", "t", false, "download the TCP config instead of UDP")
	fs.StringVarP(&o.download, "download", "d", "", "download the config pack to this file or directory")
	return c
}

func (o vpnOptions) command(fs *pflag.FlagSet) command.VPN {
	v := command.VPN{
		ReleaseArena: o.releaseArena,
		TCP:          o.tcp,
		Download:     o.download,
	}
	if fs.Changed("switch") {
		target := o.switchTo
		v.Switch = &target
	}
	return v
}

func (o vpnOptions) rows(v command.VPN) []ui.Row {
	rows := []ui.Row{{Key: "Mode", Value: "vpn"}}
	if v.Switch != nil {
		rows = append(rows, ui.Row{Key: "Switch", Value: *v.Switch})
	}
	rows = appendFlag(rows, "Release Arena", v.ReleaseArena)
	rows = appendFlag(rows, "TCP", v.TCP)
	if v.Download != "" {
		rows = append(rows, ui.Row{Key: "Download", Value: v.Download})
	}
	return rows
}
