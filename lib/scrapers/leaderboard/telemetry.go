package leaderboard

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("golfboard/lib/scrapers/leaderboard")

const (
	report_scrape_rows    = "rows"
	report_scrape_row     = "scrape-row"
	report_scrape_restore = "restore-row"
	report_scrape_detail  = "scrape-detail"
)
