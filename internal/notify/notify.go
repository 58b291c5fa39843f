// Package notify posts short plain-text messages to an ntfy-style
// endpoint. The dashboard uses it to announce replay completions; an
// empty endpoint disables it entirely.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SendReplayComplete announces that a session's replay reached the last bar.
func SendReplayComplete(ctx context.Context, client *http.Client, endpoint, symbol, sessionID string, total int) error {
	message := fmt.Sprintf("%s replay complete: session %s played through all %d bars.", symbol, sessionID, total)
	return Send(ctx, client, endpoint, message)
}

// Send sends a message to the requested endpoint using HTTP POST.
func Send(ctx context.Context, client *http.Client, endpoint, message string) error {
	c := client
	if c == nil {
		c = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(message))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy notification failed: status=%d", resp.StatusCode)
	}
	return nil
}
