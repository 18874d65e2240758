package prompt

import (
	"errors"
	"strings"
)

// ErrNoAnswer is returned by Script when it runs out of answers.
var ErrNoAnswer = errors.New("no scripted answer left")

// Script answers prompts from a fixed list, in order. It records every
// label it was asked with.
type Script struct {
	Answers []string
	Asked   []string
}

func (s *Script) next(label string) (string, error) {
	s.Asked = append(s.Asked, label)
	if len(s.Answers) == 0 {
		return "", ErrNoAnswer
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, nil
}

func (s *Script) Line(label string) (string, error) { return s.next(label) }

func (s *Script) Password(label string) (string, error) { return s.next(label) }

func (s *Script) Confirm(question string) (bool, error) {
	answer, err := s.next(question)
	if err != nil {
		return false, err
	}
	return isYes(strings.TrimSpace(answer)), nil
}
