package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-resty/resty/v2"
)

// download streams the response body of path into dest. Error responses are
// never written to disk.
func (c *Client) download(ctx context.Context, path, dest string) error {
	resp, err := c.fetchRaw(ctx, path)
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusUnauthorized && c.canRefresh(path) {
		resp.RawBody().Close()
		if err := c.refresh(ctx); err != nil {
			return err
		}
		if resp, err = c.fetchRaw(ctx, path); err != nil {
			return err
		}
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() >= 400 {
		data, _ := io.ReadAll(io.LimitReader(body, 64<<10))
		return classify(resp.StatusCode(), data)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dest)
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return f.Close()
}

func (c *Client) fetchRaw(ctx context.Context, path string) (*resty.Response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "*/*").
		SetDoNotParseResponse(true)
	if c.tokens.Access != "" {
		req.SetAuthToken(c.tokens.Access)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return resp, nil
}
