// Package command holds the validated value of each subcommand. Raw flag
// input is turned into these once, before anything talks to the platform.
package command

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/An00bRektn/htb-cli/api"
)

type Kind string

const (
	KindChallenge Kind = "challenge"
	KindMachine   Kind = "machine"
	KindVPN       Kind = "vpn"
)

const (
	MinDifficulty = 10
	MaxDifficulty = 100
)

// Normalize turns a raw name argument into an identifier. Outside the VPN
// subcommand a string made only of decimal digits is an ID.
func Normalize(kind Kind, raw string) api.Identifier {
	if kind != KindVPN && isDecimal(raw) {
		if id, err := strconv.Atoi(raw); err == nil {
			return api.ByID(id)
		}
	}
	return api.ByName(raw)
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Submission is a flag plus difficulty rating. The platform needs both.
type Submission struct {
	Flag       *string
	Difficulty *int
}

func (s Submission) Complete() bool { return s.Flag != nil && s.Difficulty != nil }

// Partial reports whether exactly one of flag and difficulty was given.
func (s Submission) Partial() bool { return (s.Flag == nil) != (s.Difficulty == nil) }

func (s Submission) Validate() error {
	if s.Difficulty != nil && (*s.Difficulty < MinDifficulty || *s.Difficulty > MaxDifficulty) {
		return fmt.Errorf("difficulty must be between %d and %d, got %d", MinDifficulty, MaxDifficulty, *s.Difficulty)
	}
	return nil
}

type Challenge struct {
	Target api.Identifier
	Path   string
	Start  bool
	Stop   bool
	Reset  bool
	Submission
}

func (c Challenge) Validate() error {
	if c.Target.IsID() && c.Target.ID == 0 {
		return errors.New("a challenge name or ID is required")
	}
	return c.Submission.Validate()
}

type Machine struct {
	Target       api.Identifier
	Spawn        bool
	ReleaseArena bool
	Stop         bool
	Reset        bool
	Submission
}

func (m Machine) Validate() error {
	if m.Target.IsID() && m.Target.ID == 0 {
		return errors.New("a machine name or ID is required")
	}
	return m.Submission.Validate()
}

type VPN struct {
	// Switch is nil when no switch was requested. An empty value or "menu"
	// opens the server menu.
	Switch       *string
	ReleaseArena bool
	TCP          bool
	Download     string
}
