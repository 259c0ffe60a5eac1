// Package preflight checks that a target is reachable before a browser is
// started for it.
package preflight

import (
	"context"
	"golfboard/internal/components/telemetry"
	"golfboard/lib/browser"
	"golfboard/lib/restyutil"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var tracer = otel.Tracer("golfboard/lib/preflight")

type Client struct {
	http *resty.Client
}

// NewClient creates a preflight client, if debugDir is not empty every
// exchange is dumped into it.
func NewClient(tel telemetry.API, debugDir string) (Client, error) {
	tel = telemetry.NewScopedAPI("preflight", tel)

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)

	var output restyutil.InstrumentOutput
	if debugDir != "" {
		fs, err := restyutil.NewFilesystemOutput(debugDir, tel)
		if err != nil {
			return Client{}, err
		}
		output = fs
	}
	restyutil.InstrumentClient(client, "preflight", tracer, output)
	telemetry.InstrumentResty(client, tel)

	return Client{http: client}, nil
}

// Check requests url and fails with a *browser.NavigationError if it cannot be
// fetched or responds with an error status.
func (c Client) Check(ctx context.Context, url string) error {
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return &browser.NavigationError{URL: url, Err: err}
	}
	if res.IsError() {
		return &browser.NavigationError{URL: url, Status: res.StatusCode()}
	}
	return nil
}
