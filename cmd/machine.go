package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/An00bRektn/htb-cli/internal/command"
	"github.com/An00bRektn/htb-cli/internal/ui"
)

type machineOptions struct {
	name         string
	spawn        bool
	releaseArena bool
	stop         bool
	reset        bool
	flag         string
	difficulty   int
}

func (a *app) machineCmd() *cobra.Command {
	var o machineOptions
	c := &cobra.Command{
		Use:   "machine",
		Short: "Spawn, stop, reset or submit a machine",
		Long: `Work with a single machine, picked by name or ID.

Actions run in this order: spawn, submit, stop, reset. Stop and reset act
on whichever machine is currently active on the account.

Examples:
  htbcli machine -n Lame -s
  htbcli machine -n Lame -s --release-arena
  htbcli machine -n 1 -f <flag> -d 20 --stop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value := o.command(cmd.Flags())
			a.summarize(o.rows(value))
			return a.dispatcher.Machine(cmd.Context(), value)
		},
	}

	fs := c.Flags()
	fs.StringVarP(&o.name, "name", "n", "", "machine name or ID")
	fs.BoolVarP(&o.spawn, "spawn", "s", false, "spawn an instance of the machine")
	fs.BoolVar(&o.releaseArena, "release-arena", false, "spawn in the Release Arena")
	fs.BoolVar(&o.stop, "stop", false, "stop the active machine")
	fs.BoolVarP(&o.reset, "reset", "r", false, "reset the active machine")
	addSubmissionFlags(fs, &o.flag, &o.difficulty)
	_ = c.MarkFlagRequired("name")
	return c
}

func (o machineOptions) command(fs *pflag.FlagSet) command.Machine {
	return command.Machine{
		Target:       command.Normalize(command.KindMachine, o.name),
		Spawn:        o.spawn,
		ReleaseArena: o.releaseArena,
		Stop:         o.stop,
		Reset:        o.reset,
		Submission:   submission(fs, o.flag, o.difficulty),
	}
}

func (o machineOptions) rows(m command.Machine) []ui.Row {
	rows := []ui.Row{{Key: "Mode", Value: "machine"}, {Key: "Target", Value: m.Target.String()}}
	rows = appendFlag(rows, "Spawn", m.Spawn)
	rows = appendFlag(rows, "Release Arena", m.ReleaseArena)
	rows = appendFlag(rows, "Stop", m.Stop)
	rows = appendFlag(rows, "Reset", m.Reset)
	return appendSubmission(rows, m.Submission)
}
