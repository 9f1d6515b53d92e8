package probe

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/myrho/hovercard/pkg/errors"
	"github.com/myrho/hovercard/pkg/measure"
)

// rectExpr evaluates to the element's bounding rect plus the viewport box,
// or null when the element does not exist in the page.
const rectExpr = `(() => {
	const el = document.getElementById(%q);
	if (!el) return null;
	const r = el.getBoundingClientRect();
	return {
		element: {x: r.x, y: r.y, width: r.width, height: r.height},
		viewport: {x: 0, y: 0, width: window.innerWidth, height: window.innerHeight},
	};
})()`

// Browser probes a live page in headless Chrome. The page is navigated once
// on the first lookup; subsequent lookups reuse the same tab so repeated
// probes of one page stay cheap.
type Browser struct {
	url string

	mu          sync.Mutex
	browserCtx  context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	navigated   bool
}

// NewBrowser starts a headless Chrome instance for probing url.
// Close must be called to release the browser.
func NewBrowser(ctx context.Context, url string) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	return &Browser{
		url:         url,
		browserCtx:  browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Probe looks up the element's bounding rect in the page. A missing element
// yields ErrCodeElementNotFound; transport failures yield ErrCodeProbe.
func (b *Browser) Probe(ctx context.Context, id string) (measure.Probe, error) {
	if err := ctx.Err(); err != nil {
		return measure.Probe{}, errors.Wrap(errors.ErrCodeProbeTimeout, err, "probe canceled for %q", id)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.navigated {
		err := chromedp.Run(b.browserCtx,
			chromedp.Navigate(b.url),
			chromedp.WaitReady("body", chromedp.ByQuery),
		)
		if err != nil {
			return measure.Probe{}, errors.Wrap(errors.ErrCodeProbe, err, "navigate to %s", b.url)
		}
		b.navigated = true
	}

	// A nil result after evaluation means the expression returned null:
	// the element is not in the render tree.
	var res *measure.Probe
	expr := fmt.Sprintf(rectExpr, id)
	if err := chromedp.Run(b.browserCtx, chromedp.Evaluate(expr, &res)); err != nil {
		return measure.Probe{}, errors.Wrap(errors.ErrCodeProbe, err, "evaluate rect for %q", id)
	}
	if res == nil {
		return measure.Probe{}, errors.New(errors.ErrCodeElementNotFound, "no element with id %q", id)
	}
	return *res, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.cancelCtx()
	b.cancelAlloc()
}

// Ensure Browser implements measure.Prober.
var _ measure.Prober = (*Browser)(nil)
