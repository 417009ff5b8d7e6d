package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"newswatch/internal/ports"
)

// networkIdleWindow is how long the page must stay free of network activity
// before the DOM is considered settled.
const networkIdleWindow = 500 * time.Millisecond

// ChromeRenderer renders JavaScript-heavy pages in headless Chrome and
// returns the resulting DOM serialization.
type ChromeRenderer struct {
	allocOpts []chromedp.ExecAllocatorOption
}

var _ ports.Renderer = (*ChromeRenderer)(nil)

// NewChromeRenderer builds a renderer with headless defaults. Each Render
// call gets its own browser context so one stuck page cannot poison later
// renders.
func NewChromeRenderer() *ChromeRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
	)
	return &ChromeRenderer{allocOpts: opts}
}

// Render loads the page, waits for network activity to settle within the
// timeout, and returns the serialized document.
func (r *ChromeRenderer) Render(ctx context.Context, pageURL string, timeout time.Duration) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		network.Enable(),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		waitNetworkIdle(networkIdleWindow),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", pageURL, err)
	}

	return html, nil
}

// waitNetworkIdle blocks until no request has started or finished for the
// given window, so late client-side loads land in the DOM before it is
// serialized. The surrounding run context bounds the wait.
func waitNetworkIdle(window time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		activity := make(chan struct{}, 1)
		chromedp.ListenTarget(ctx, func(ev interface{}) {
			switch ev.(type) {
			case *network.EventRequestWillBeSent,
				*network.EventLoadingFinished,
				*network.EventLoadingFailed:
				select {
				case activity <- struct{}{}:
				default:
				}
			}
		})
		return awaitQuiet(ctx, activity, window)
	})
}

// awaitQuiet returns once the activity channel has been silent for the full
// window, or the context expires first.
func awaitQuiet(ctx context.Context, activity <-chan struct{}, window time.Duration) error {
	timer := time.NewTimer(window)
	defer timer.Stop()

	for {
		select {
		case <-activity:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(window)
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
