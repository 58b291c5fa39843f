package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Default capture size when the caller leaves width/height at zero. Wide
// enough that the chart and volume panes stack without clipping.
const (
	DefaultWidth  = 1366
	DefaultHeight = 960
)

// Renderer rasterizes an exported HTML page to PNG through a remote
// headless Chromium. Each render opens a fresh tab against the configured
// CDP endpoint and closes it when done.
type Renderer struct {
	cdpURL  string
	timeout time.Duration
}

// NewRenderer builds a renderer for the CDP endpoint, e.g.
// "http://127.0.0.1:9222".
func NewRenderer(cdpURL string, timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Renderer{cdpURL: cdpURL, timeout: timeout}
}

// RenderPNG loads the HTML document in a new tab and captures a full-page
// screenshot.
func (r *Renderer) RenderPNG(ctx context.Context, html []byte, width, height int) ([]byte, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, r.cdpURL)
	defer allocCancel()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, r.timeout)
	defer timeoutCancel()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString(html)

	var shot []byte
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(dataURL),
		// The chart library draws onto canvases after load; wait for the
		// first one, then give the initial animation a beat to settle.
		chromedp.WaitVisible("canvas", chromedp.ByQuery),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			shot, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithCaptureBeyondViewport(true).
				WithFromSurface(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	return shot, nil
}
