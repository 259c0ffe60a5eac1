package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromedp/chromedp"
)

// CaptureScreenshot captures a screenshot of the viewport and saves it to filename.
func (p *ChromePage) CaptureScreenshot(ctx context.Context, filename string) error {
	var buf []byte
	if err := p.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return writeArtifact(filename, buf)
}

// DumpHTML saves the current rendered document to filename.
func (p *ChromePage) DumpHTML(ctx context.Context, filename string) error {
	var html string
	if err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to capture html: %w", err)
	}
	return writeArtifact(filename, []byte(html))
}

// DebugFailure writes a screenshot and an html dump named after name into dir,
// failures to do so are only reported since the page may already be unusable.
func (p *ChromePage) DebugFailure(ctx context.Context, dir, name string) {
	err := p.CaptureScreenshot(ctx, filepath.Join(dir, fmt.Sprintf("debug-%s.png", name)))
	if err != nil {
		p.tel.ReportWarning("page.debug-failure", err, name)
	}
	err = p.DumpHTML(ctx, filepath.Join(dir, fmt.Sprintf("debug-%s.html", name)))
	if err != nil {
		p.tel.ReportWarning("page.debug-failure", err, name)
	}
}

func writeArtifact(filename string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filename, err)
	}
	if err := os.WriteFile(filename, contents, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
