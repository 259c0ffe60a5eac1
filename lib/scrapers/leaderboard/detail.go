package leaderboard

import (
	"context"
	"fmt"
	"golfboard/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// scrapeDetail selects value in the detail control and reads the par and score
// lines of the scorecard it renders.
func (s Scraper) scrapeDetail(ctx context.Context, value string) (pars, scores []string, err error) {
	sel := s.opts.Selectors

	err = s.page.Select(ctx, sel.DetailControl, value)
	if err != nil {
		return nil, nil, fmt.Errorf("select: %w", err)
	}
	err = s.settle(ctx)
	if err != nil {
		return nil, nil, err
	}
	if sel.DetailReady != "" {
		err = s.waitFor(ctx, sel.DetailReady)
		if err != nil {
			return nil, nil, err
		}
	}

	// both lines are read from the same snapshot so they always belong to the
	// same render of the scorecard
	doc, err := s.page.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	pars, scores = parseDetail(doc.Selection, sel)
	return pars, scores, nil
}

// parseDetail reads the par line and the score line of a rendered scorecard, a
// missing line (ex. a round not played yet) is an empty sequence.
func parseDetail(doc *goquery.Selection, sel Selectors) (pars, scores []string) {
	pars = htmlutil.Texts(doc.Find(sel.ParCells))
	scores = htmlutil.Texts(doc.Find(sel.ScoreCells))
	return pars, scores
}
