// Package prompt reads answers from the user.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Prompter is the interaction the core needs from a terminal.
type Prompter interface {
	Line(label string) (string, error)
	Password(label string) (string, error)
	Confirm(question string) (bool, error)
}

// Labeler decorates prompt text. *ui.Printer satisfies it.
type Labeler interface {
	PromptLabel(label string) string
	QuestionLabel(question string) string
}

// Terminal prompts on stdin/stdout.
type Terminal struct {
	in    *bufio.Reader
	out   io.Writer
	label Labeler
}

func NewTerminal(label Labeler) *Terminal {
	return &Terminal{in: bufio.NewReader(os.Stdin), out: os.Stdout, label: label}
}

func (t *Terminal) Line(label string) (string, error) {
	fmt.Fprint(t.out, t.label.PromptLabel(label))
	return t.readLine()
}

func (t *Terminal) readLine() (string, error) {
	text, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && text != "") {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Password reads without echo when stdin is a terminal.
func (t *Terminal) Password(label string) (string, error) {
	fmt.Fprint(t.out, t.label.PromptLabel(label))

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return t.readLine()
	}

	if state, err := term.GetState(fd); err == nil {
		saveState(fd, state)
		defer saveState(fd, nil)
	}
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}

func (t *Terminal) Confirm(question string) (bool, error) {
	fmt.Fprint(t.out, t.label.QuestionLabel(question))
	answer, err := t.readLine()
	if err != nil {
		return false, err
	}
	return isYes(answer), nil
}

func isYes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

var (
	stateMu    sync.Mutex
	savedFd    int
	savedState *term.State
)

func saveState(fd int, state *term.State) {
	stateMu.Lock()
	defer stateMu.Unlock()
	savedFd, savedState = fd, state
}

// Restore puts the terminal back into the state it had before a masked
// read. Called from the interrupt handler.
func Restore() {
	stateMu.Lock()
	defer stateMu.Unlock()
	if savedState != nil {
		term.Restore(savedFd, savedState)
		savedState = nil
	}
}
