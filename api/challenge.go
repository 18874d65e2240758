package api

import (
	"context"
	"fmt"
	"net/http"
)

type challengeAction struct {
	ChallengeID int `json:"challenge_id"`
}

type challengeSubmission struct {
	ChallengeID int    `json:"challenge_id"`
	Flag        string `json:"flag"`
	Difficulty  int    `json:"difficulty"`
}

// Challenge fetches a challenge by ID or name.
func (c *Client) Challenge(ctx context.Context, ident Identifier) (*Challenge, error) {
	var out struct {
		Challenge *Challenge `json:"challenge"`
	}
	if err := c.do(ctx, http.MethodGet, "/challenge/info/"+ident.pathSegment(), nil, &out); err != nil {
		return nil, fmt.Errorf("challenge %s: %w", ident, err)
	}
	if out.Challenge == nil || out.Challenge.ID == 0 {
		return nil, fmt.Errorf("challenge %s: %w", ident, ErrNotFound)
	}
	return out.Challenge, nil
}

// StartChallenge deploys the challenge's container and returns where it
// listens.
func (c *Client) StartChallenge(ctx context.Context, id int) (*ChallengeInstance, error) {
	var out struct {
		Message string  `json:"message"`
		IP      string  `json:"ip"`
		Port    FlexInt `json:"port"`
	}
	if err := c.do(ctx, http.MethodPost, "/challenge/start", challengeAction{ChallengeID: id}, &out); err != nil {
		return nil, err
	}

	inst := &ChallengeInstance{IP: out.IP, Port: int(out.Port)}
	if inst.IP == "" || inst.Port == 0 {
		info, err := c.Challenge(ctx, ByID(id))
		if err != nil {
			return nil, err
		}
		if inst.IP == "" {
			inst.IP = info.DockerIP
		}
		if inst.Port == 0 {
			inst.Port = int(info.DockerPort)
		}
	}
	if inst.IP == "" {
		return nil, fmt.Errorf("challenge %d: instance has no address: %w", id, ErrMalformedResponse)
	}
	return inst, nil
}

func (c *Client) StopChallenge(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, "/challenge/stop", challengeAction{ChallengeID: id}, nil)
}

// SubmitChallengeFlag returns the platform's confirmation message.
func (c *Client) SubmitChallengeFlag(ctx context.Context, id int, flag string, difficulty int) (string, error) {
	var out messageResponse
	body := challengeSubmission{ChallengeID: id, Flag: flag, Difficulty: difficulty}
	if err := c.do(ctx, http.MethodPost, "/challenge/own", body, &out); err != nil {
		return "", err
	}
	if err := messageError(out.Message); err != nil {
		return "", err
	}
	return out.Message, nil
}

// DownloadChallenge saves the challenge archive to dest.
func (c *Client) DownloadChallenge(ctx context.Context, id int, dest string) error {
	return c.download(ctx, fmt.Sprintf("/challenge/download/%d", id), dest)
}
