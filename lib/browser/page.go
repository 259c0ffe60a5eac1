package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/cdp"
)

// Page is the set of interactions a scraper may perform on a rendered page.
//
// note: fault injection point
type Page interface {
	// Navigate loads url and waits for the document body, failures are *NavigationError.
	Navigate(ctx context.Context, url string) error
	// QueryAll returns every element matching selector in document order, it
	// never waits for matches to appear.
	QueryAll(ctx context.Context, selector string) ([]*cdp.Node, error)
	// Text returns the trimmed visible text of the first match of selector
	// under scope (the whole document when scope is nil), or a *SelectorError.
	Text(ctx context.Context, selector string, scope *cdp.Node) (string, error)
	// Exists reports whether anything in the document matches selector.
	Exists(ctx context.Context, selector string) (bool, error)
	// Values returns the value property of every match of selector in document order.
	Values(ctx context.Context, selector string) ([]string, error)
	Click(ctx context.Context, node *cdp.Node) error
	// Select sets the value of the select element matching selector and
	// dispatches the same input/change events a user selection would.
	Select(ctx context.Context, selector, value string) error
	// WaitFor blocks until selector matches an element, it is bounded only by ctx.
	WaitFor(ctx context.Context, selector string) error
	// Snapshot returns the current rendered document.
	Snapshot(ctx context.Context) (*goquery.Document, error)
}

var ErrSelectorNotFound = errors.New("selector not found")

// SelectorError is returned when a required selector matches nothing.
type SelectorError struct {
	Selector string
	// Err is the underlying cause (ex. a wait that timed out), it may be nil.
	Err error
}

func (e *SelectorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("selector not found '%s': %s", e.Selector, e.Err.Error())
	}
	return fmt.Sprintf("selector not found '%s'", e.Selector)
}

func (e *SelectorError) Is(target error) bool {
	return target == ErrSelectorNotFound
}

func (e *SelectorError) Unwrap() error {
	return e.Err
}

// NavigationError is returned when a page fails to load.
type NavigationError struct {
	URL string
	// Status is the HTTP status when known, 0 otherwise.
	Status int
	Err    error
}

func (e *NavigationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("navigate to %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("navigate to %s: %s", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}
