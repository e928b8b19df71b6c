package engine

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// chromedpBrowser drives a system-installed Chrome through chromedp. It is
// the fallback backend for machines where Rod's launcher cannot provision
// a browser of its own.
type chromedpBrowser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
}

func newChromedpBrowser() (Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Run with no actions to start the browser now, so an unusable
	// install fails here instead of on the first Load.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, err
	}

	return &chromedpBrowser{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		timeout:     30 * time.Second,
	}, nil
}

func (b *chromedpBrowser) Name() string { return "chromedp" }

func (b *chromedpBrowser) Load(path string) error {
	ctx, cancel := context.WithTimeout(b.ctx, b.timeout)
	defer cancel()

	return chromedp.Run(ctx,
		chromedp.Navigate(fileURL(path)),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (b *chromedpBrowser) Anchors() ([]AnchorData, error) {
	var anchors []AnchorData
	if err := b.eval(anchorsJS, &anchors); err != nil {
		return nil, err
	}
	return anchors, nil
}

func (b *chromedpBrowser) Images() ([]ImageData, error) {
	var images []ImageData
	if err := b.eval(imagesJS, &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (b *chromedpBrowser) eval(js string, out interface{}) error {
	ctx, cancel := context.WithTimeout(b.ctx, b.timeout)
	defer cancel()

	// The scripts are function expressions; chromedp evaluates an
	// expression, so wrap them in a call.
	return chromedp.Run(ctx, chromedp.Evaluate("("+js+")()", out))
}

func (b *chromedpBrowser) Close() error {
	b.cancel()
	b.allocCancel()
	return nil
}
