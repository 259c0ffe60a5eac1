// Package leaderboardtest provides an in-memory leaderboard page for tests.
package leaderboardtest

import (
	"context"
	"fmt"
	"golfboard/lib/browser"
	"golfboard/lib/scrapers/leaderboard"
	"html"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/cdp"
)

type Option struct {
	Value  string
	Pars   []string
	Scores []string
}

type Row struct {
	// an empty Name or Score makes the row fail to scrape like missing markup would
	Name  string
	Score string
	// HasControl renders a detail control while the row is expanded, even if
	// Options is empty.
	HasControl bool
	Options    []Option
}

type Site struct {
	Title string
	Date  string
	Rows  []Row
}

// Page implements browser.Page on top of a Site, using leaderboard.DefaultSelectors
// (plus ExpandedSelector) as the page markup. It fails any interaction that
// would leave two rows expanded at once.
type Page struct {
	site Site
	sel  leaderboard.Selectors

	mu       sync.Mutex
	expanded int
	selected string
	visited  []string
	clicks   int
	maxOpen  int

	// NavigateErr, if set, is wrapped in a *browser.NavigationError by Navigate.
	NavigateErr error
	// SelectErr, if set, is returned by Select for the given option value.
	SelectErr map[string]error
	// CollapseErr, if set, is returned once by the first click that collapses
	// a row, after the row was collapsed.
	CollapseErr error
}

// ExpandedSelector matches an expanded row on a Page.
const ExpandedSelector = ".PlayerRow__Overview--expanded"

func NewPage(site Site) *Page {
	sel := leaderboard.DefaultSelectors
	sel.ExpandedRow = ExpandedSelector
	return &Page{site: site, sel: sel, expanded: -1}
}

var _ browser.Page = (*Page)(nil)

// Selectors returns the selectors matching this page's markup.
func (p *Page) Selectors() leaderboard.Selectors {
	return p.sel
}

// Expanded reports whether any row is currently expanded.
func (p *Page) Expanded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expanded >= 0
}

func (p *Page) Visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visited...)
}

func (p *Page) Clicks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clicks
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.NavigateErr != nil {
		return &browser.NavigationError{URL: url, Err: p.NavigateErr}
	}
	p.visited = append(p.visited, url)
	p.expanded = -1
	p.selected = ""
	return ctx.Err()
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]*cdp.Node, error) {
	if selector != p.sel.ExpandableRow {
		return nil, nil
	}
	nodes := make([]*cdp.Node, len(p.site.Rows))
	for i := range p.site.Rows {
		nodes[i] = &cdp.Node{NodeID: cdp.NodeID(i + 1), NodeName: "TR"}
	}
	return nodes, ctx.Err()
}

func (p *Page) row(node *cdp.Node) (int, error) {
	i := int(node.NodeID) - 1
	if i < 0 || i >= len(p.site.Rows) {
		return 0, fmt.Errorf("unknown node %d", node.NodeID)
	}
	return i, nil
}

func notFound(selector string) error {
	return &browser.SelectorError{Selector: selector}
}

func (p *Page) Text(ctx context.Context, selector string, scope *cdp.Node) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var text string
	if scope == nil {
		switch selector {
		case p.sel.EventTitle:
			text = p.site.Title
		case p.sel.EventDate:
			text = p.site.Date
		}
	} else {
		i, err := p.row(scope)
		if err != nil {
			return "", err
		}
		switch selector {
		case p.sel.PlayerName:
			text = p.site.Rows[i].Name
		case p.sel.Score:
			text = p.site.Rows[i].Score
		}
	}
	if text == "" {
		return "", notFound(selector)
	}
	return text, ctx.Err()
}

func (p *Page) controlVisible() bool {
	return p.expanded >= 0 && p.site.Rows[p.expanded].HasControl
}

func (p *Page) Exists(ctx context.Context, selector string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch selector {
	case p.sel.DetailControl:
		return p.controlVisible(), ctx.Err()
	case p.sel.ExpandedRow:
		return p.expanded >= 0, ctx.Err()
	}
	return false, ctx.Err()
}

func (p *Page) Values(ctx context.Context, selector string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if selector != p.sel.DetailOptions() || !p.controlVisible() {
		return nil, ctx.Err()
	}
	var values []string
	for _, o := range p.site.Rows[p.expanded].Options {
		values = append(values, o.Value)
	}
	return values, ctx.Err()
}

func (p *Page) Click(ctx context.Context, node *cdp.Node) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, err := p.row(node)
	if err != nil {
		return err
	}
	p.clicks++
	switch p.expanded {
	case -1:
		p.expanded = i
		p.maxOpen = max(p.maxOpen, 1)
	case i:
		p.expanded = -1
		p.selected = ""
		if p.CollapseErr != nil {
			err := p.CollapseErr
			p.CollapseErr = nil
			return err
		}
	default:
		p.maxOpen = 2
		return fmt.Errorf("row %d expanded while row %d is expanded", i, p.expanded)
	}
	return ctx.Err()
}

func (p *Page) option(value string) (Option, bool) {
	if !p.controlVisible() {
		return Option{}, false
	}
	for _, o := range p.site.Rows[p.expanded].Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

func (p *Page) Select(ctx context.Context, selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.SelectErr[value]; err != nil {
		return err
	}
	if selector != p.sel.DetailControl {
		return notFound(selector)
	}
	if _, ok := p.option(value); !ok {
		return notFound(selector)
	}
	p.selected = value
	return ctx.Err()
}

func (p *Page) WaitFor(ctx context.Context, selector string) error {
	p.mu.Lock()
	visible := p.controlVisible()
	p.mu.Unlock()

	if selector == p.sel.DetailControl && visible {
		return nil
	}
	<-ctx.Done()
	return &browser.SelectorError{Selector: selector, Err: ctx.Err()}
}

func (p *Page) Snapshot(ctx context.Context) (*goquery.Document, error) {
	p.mu.Lock()
	markup := p.render()
	p.mu.Unlock()
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

// render produces the scorecard markup of the currently selected option.
func (p *Page) render() string {
	var b strings.Builder
	b.WriteString("<html><body>")
	if o, ok := p.option(p.selected); ok {
		b.WriteString(`<div class="Scorecards"><table><tbody>`)
		writeLine(&b, "0", o.Pars)
		writeLine(&b, "1", o.Scores)
		b.WriteString("</tbody></table></div>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func writeLine(b *strings.Builder, idx string, values []string) {
	if values == nil {
		return
	}
	fmt.Fprintf(b, `<tr class="Table__TR Table__TR--sm Table__even" data-idx="%s">`, idx)
	b.WriteString(`<td class="Table__TD">Hole</td>`)
	for _, v := range values {
		fmt.Fprintf(b, `<td class="Table__TD"><span class="Scorecard__Score"> %s </span></td>`, html.EscapeString(v))
	}
	b.WriteString("</tr>")
}

// MaxExpanded returns the largest number of rows that were expanded at once.
func (p *Page) MaxExpanded() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxOpen
}
