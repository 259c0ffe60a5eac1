package browser

import (
	"context"
	"fmt"
	"golfboard/internal/components/telemetry"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("golfboard/lib/browser")

type Options struct {
	// ShowBrowser runs chrome with a visible window instead of headless.
	ShowBrowser bool `json:"show_browser"`
	// RemoteURL attaches to an already running chrome (its devtools websocket url)
	// instead of launching one.
	RemoteURL string `json:"remote_url"`
	// ExecPath is the chrome binary to launch, found on PATH when empty.
	ExecPath string `json:"exec_path"`
	// NoSandbox is needed to launch chrome as root (ex. inside a container).
	NoSandbox    bool `json:"no_sandbox"`
	WindowWidth  int  `json:"window_width"`
	WindowHeight int  `json:"window_height"`
}

// ChromePage implements Page on a single chrome tab driven by chromedp.
type ChromePage struct {
	tabCtx context.Context
	cancel func()
	tel    telemetry.API
}

// Launch starts (or attaches to) chrome and opens one tab. The tab outlives ctx
// cancellation only in the sense that Close must still be called.
func Launch(ctx context.Context, opts Options, tel telemetry.API) (*ChromePage, error) {
	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if opts.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
	} else {
		allocOpts := append(
			chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", !opts.ShowBrowser),
		)
		if opts.ExecPath != "" {
			allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
		}
		if opts.NoSandbox {
			allocOpts = append(allocOpts, chromedp.NoSandbox)
		}
		if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
			allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, allocOpts...)
	}

	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		tel.ReportDebug(fmt.Sprintf("chromedp: "+format, args...))
	}))
	// the first Run allocates the browser and the tab
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	return &ChromePage{
		tabCtx: tabCtx,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
		tel: tel,
	}, nil
}

// Close closes the tab and, if it was launched by us, the browser.
func (p *ChromePage) Close() {
	p.cancel()
}

// run executes actions on the tab while honoring the cancellation and deadline of ctx.
func (p *ChromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.tabCtx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (p *ChromePage) Navigate(ctx context.Context, url string) error {
	ctx, span := tracer.Start(ctx, "page:Navigate", trace.WithAttributes(attribute.String("url", url)))
	defer span.End()

	err := p.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		span.RecordError(err)
		return &NavigationError{URL: url, Err: err}
	}
	return nil
}

func (p *ChromePage) query(ctx context.Context, selector string, scope *cdp.Node) ([]*cdp.Node, error) {
	opts := []chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}
	if scope != nil {
		opts = append(opts, chromedp.FromNode(scope))
	}
	var nodes []*cdp.Node
	err := p.run(ctx, chromedp.Nodes(selector, &nodes, opts...))
	if err != nil {
		return nil, fmt.Errorf("query '%s': %w", selector, err)
	}
	return nodes, nil
}

func (p *ChromePage) QueryAll(ctx context.Context, selector string) ([]*cdp.Node, error) {
	return p.query(ctx, selector, nil)
}

func (p *ChromePage) Text(ctx context.Context, selector string, scope *cdp.Node) (string, error) {
	nodes, err := p.query(ctx, selector, scope)
	if err != nil {
		return "", err
	}
	if len(nodes) == 0 {
		return "", &SelectorError{Selector: selector}
	}

	var text string
	err = p.run(ctx, chromedp.Text([]cdp.NodeID{nodes[0].NodeID}, &text, chromedp.ByNodeID))
	if err != nil {
		return "", fmt.Errorf("read text '%s': %w", selector, err)
	}
	return strings.TrimSpace(text), nil
}

func (p *ChromePage) Exists(ctx context.Context, selector string) (bool, error) {
	var exists bool
	js := fmt.Sprintf(`document.querySelector(%s) !== null`, strconv.Quote(selector))
	err := p.run(ctx, chromedp.Evaluate(js, &exists))
	if err != nil {
		return false, fmt.Errorf("check '%s': %w", selector, err)
	}
	return exists, nil
}

func (p *ChromePage) Values(ctx context.Context, selector string) ([]string, error) {
	var values []string
	js := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%s)).map(el => el.value)`,
		strconv.Quote(selector),
	)
	err := p.run(ctx, chromedp.Evaluate(js, &values))
	if err != nil {
		return nil, fmt.Errorf("read values '%s': %w", selector, err)
	}
	return values, nil
}

func (p *ChromePage) Click(ctx context.Context, node *cdp.Node) error {
	err := p.run(ctx, chromedp.Click([]cdp.NodeID{node.NodeID}, chromedp.ByNodeID))
	if err != nil {
		return fmt.Errorf("click <%s>: %w", strings.ToLower(node.NodeName), err)
	}
	return nil
}

const selectJS = `(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	el.value = %s;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
	return true;
})()`

func (p *ChromePage) Select(ctx context.Context, selector, value string) error {
	var found bool
	js := fmt.Sprintf(selectJS, strconv.Quote(selector), strconv.Quote(value))
	err := p.run(ctx, chromedp.Evaluate(js, &found))
	if err != nil {
		return fmt.Errorf("select '%s' in '%s': %w", value, selector, err)
	}
	if !found {
		return &SelectorError{Selector: selector}
	}
	return nil
}

func (p *ChromePage) WaitFor(ctx context.Context, selector string) error {
	err := p.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err != nil {
		return &SelectorError{Selector: selector, Err: err}
	}
	return nil
}

func (p *ChromePage) Snapshot(ctx context.Context) (*goquery.Document, error) {
	var html string
	err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
