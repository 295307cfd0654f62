package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

const (
	stateSelectSel  = "#states"
	searchButtonSel = "#search-now"
	resultsSel      = "#results"
	outletBoxSel    = "#results .addressBox"

	pollInterval = 250 * time.Millisecond
)

// selectStateJS picks the #states option whose text matches %s and fires change
const selectStateJS = `(() => {
	const want = %s.toLowerCase();
	const sel = document.querySelector("#states");
	if (!sel) return false;
	for (const opt of sel.options) {
		if (opt.text.trim().toLowerCase() === want) {
			sel.value = opt.value;
			sel.dispatchEvent(new Event("change", {bubbles: true}));
			return true;
		}
	}
	return false;
})()`

// clickNextJS clicks the first enabled pagination control
const clickNextJS = `(() => {
	const selectors = [".pagination-next", ".next", ".btn-next", "[class*='next']", "[aria-label*='next' i]"];
	for (const s of selectors) {
		for (const el of document.querySelectorAll(s)) {
			const disabled = el.disabled ||
				el.classList.contains("disabled") ||
				el.getAttribute("aria-disabled") === "true" ||
				(el.parentElement && el.parentElement.classList.contains("disabled"));
			if (disabled || el.offsetParent === null) continue;
			el.click();
			return true;
		}
	}
	return false;
})()`

// chromeDriver drives a headless Chrome tab through chromedp
type chromeDriver struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	last    string
}

func newChromeDriver(ctx context.Context, cfg RendererConfig, logger zerolog.Logger) (*chromeDriver, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.WindowSize(1920, 1080))
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Debug().Msgf(format, args...)
		}),
	)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// Run with no actions launches the browser
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, err
	}

	return &chromeDriver{ctx: browserCtx, cancel: cancel, timeout: cfg.PageTimeout}, nil
}

func (d *chromeDriver) run(actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (d *chromeDriver) Open(url string) error {
	return d.run(
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (d *chromeDriver) FilterState(state string) error {
	quoted, err := json.Marshal(state)
	if err != nil {
		return err
	}

	var selected bool
	if err := d.run(
		chromedp.WaitReady(stateSelectSel, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(selectStateJS, quoted), &selected),
	); err != nil {
		return err
	}
	if !selected {
		return fmt.Errorf("%w: %s", ErrStateNotFound, state)
	}

	return d.run(chromedp.Click(searchButtonSel, chromedp.ByQuery))
}

func (d *chromeDriver) Results() (string, error) {
	var markup string
	err := d.run(
		chromedp.WaitVisible(outletBoxSel, chromedp.ByQuery),
		chromedp.OuterHTML(resultsSel, &markup, chromedp.ByQuery),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return "", fmt.Errorf("no outlets shown within %s", d.timeout)
	}
	if err != nil {
		return "", err
	}
	d.last = markup
	return markup, nil
}

// NextPage clicks "next" and waits for the results container to change.
// An unchanged container after the timeout is treated as the last page.
func (d *chromeDriver) NextPage() (bool, error) {
	var clicked bool
	if err := d.run(chromedp.Evaluate(clickNextJS, &clicked)); err != nil {
		return false, err
	}
	if !clicked {
		return false, nil
	}

	deadline := time.Now().Add(d.timeout)
	for time.Now().Before(deadline) {
		var markup string
		if err := d.run(chromedp.OuterHTML(resultsSel, &markup, chromedp.ByQuery)); err != nil {
			return false, err
		}
		if markup != d.last {
			return true, nil
		}

		select {
		case <-d.ctx.Done():
			return false, d.ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return false, nil
}

func (d *chromeDriver) Close() {
	d.cancel()
}
