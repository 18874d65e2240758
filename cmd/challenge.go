package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/An00bRektn/htb-cli/internal/command"
	"github.com/An00bRektn/htb-cli/internal/ui"
)

type challengeOptions struct {
	name       string
	path       string
	start      bool
	stop       bool
	reset      bool
	flag       string
	difficulty int
}

func (a *app) challengeCmd() *cobra.Command {
	var o challengeOptions
	c := &cobra.Command{
		Use:   "challenge",
		Short: "Download, start, stop or submit a challenge",
		Long: `Work with a single challenge, picked by name or ID.

Actions run in this order: download, start, stop, reset, submit.

Examples:
  htbcli challenge -n "Weather App" -p ~/ctf
  htbcli challenge -n 196 -s
  htbcli challenge -n 196 -f 'HTB{...}' -d 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value := o.command(cmd.Flags())
			a.summarize(o.rows(value))
			return a.dispatcher.Challenge(cmd.Context(), value)
		},
	}

	fs := c.Flags()
	fs.StringVarP(&o.name, "name", "n", "", "challenge name or ID")
	fs.StringVarP(&o.path, "path", "p", "", "download the challenge files to this file or directory")
	fs.BoolVarP(&o.start, "start-docker", "s", false, "start the challenge instance")
	fs.BoolVar(&o.stop, "stop", false, "stop the challenge instance")
	fs.BoolVarP(&o.reset, "reset", "r", false, "restart the challenge instance")
	addSubmissionFlags(fs, &o.flag, &o.difficulty)
	_ = c.MarkFlagRequired("name")
	return c
}

func (o challengeOptions) command(fs *pflag.FlagSet) command.Challenge {
	return command.Challenge{
		Target:     command.Normalize(command.KindChallenge, o.name),
		Path:       o.path,
		Start:      o.start,
		Stop:       o.stop,
		Reset:      o.reset,
		Submission: submission(fs, o.flag, o.difficulty),
	}
}

func (o challengeOptions) rows(c command.Challenge) []ui.Row {
	rows := []ui.Row{{Key: "Mode", Value: "challenge"}, {Key: "Target", Value: c.Target.String()}}
	if c.Path != "" {
		rows = append(rows, ui.Row{Key: "Path", Value: c.Path})
	}
	rows = appendFlag(rows, "Start", c.Start)
	rows = appendFlag(rows, "Stop", c.Stop)
	rows = appendFlag(rows, "Reset", c.Reset)
	return appendSubmission(rows, c.Submission)
}

func addSubmissionFlags(fs *pflag.FlagSet, flag *string, difficulty *int) {
	fs.StringVarP(flag, "flag", "f", "", "flag to submit")
	fs.IntVarP(difficulty, "difficulty", "d", 0, "difficulty rating for the submission (10-100)")
}

// submission keeps only the flags the user actually passed.
func submission(fs *pflag.FlagSet, flag string, difficulty int) command.Submission {
	var s command.Submission
	if fs.Changed("flag") {
		s.Flag = &flag
	}
	if fs.Changed("difficulty") {
		s.Difficulty = &difficulty
	}
	return s
}

func appendFlag(rows []ui.Row, key string, set bool) []ui.Row {
	if !set {
		return rows
	}
	return append(rows, ui.Row{Key: key, Value: "yes"})
}

func appendSubmission(rows []ui.Row, s command.Submission) []ui.Row {
	if s.Flag != nil {
		rows = append(rows, ui.Row{Key: "Flag", Value: *s.Flag})
	}
	if s.Difficulty != nil {
		rows = append(rows, ui.Row{Key: "Difficulty", Value: strconv.Itoa(*s.Difficulty)})
	}
	return rows
}
