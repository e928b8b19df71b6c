package engine

import (
	"encoding/json"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// rodBrowser drives Rod's managed headless Chromium. It is the primary
// backend: the launcher provisions its own browser binary, so it works on
// machines with no system Chrome installed.
type rodBrowser struct {
	browser *rod.Browser
	page    *rod.Page
	timeout time.Duration
}

func newRodBrowser() (Browser, error) {
	u, err := launcher.New().
		Headless(true).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, err
	}

	return &rodBrowser{
		browser: browser,
		timeout: 30 * time.Second,
	}, nil
}

func (b *rodBrowser) Name() string { return "rod" }

func (b *rodBrowser) Load(path string) error {
	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return err
	}
	page = page.Timeout(b.timeout)

	if err := page.Navigate(fileURL(path)); err != nil {
		return err
	}
	if err := page.WaitLoad(); err != nil {
		return err
	}

	b.page = page
	return nil
}

func (b *rodBrowser) Anchors() ([]AnchorData, error) {
	var anchors []AnchorData
	if err := b.eval(anchorsJS, &anchors); err != nil {
		return nil, err
	}
	return anchors, nil
}

func (b *rodBrowser) Images() ([]ImageData, error) {
	var images []ImageData
	if err := b.eval(imagesJS, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// eval runs an extraction script in the page and decodes its JSON result.
func (b *rodBrowser) eval(js string, out interface{}) error {
	res, err := b.page.Eval(js)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(res.Value.Val())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (b *rodBrowser) Close() error {
	b.page = nil
	if b.browser != nil {
		return b.browser.Close()
	}
	return nil
}
