// Package browser prints slide decks to PDF with a headless Chrome.
package browser

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"pii-deck/models"
	"pii-deck/utils"
)

// Handout renders a Deck as HTML, one 10in x 7.5in page per slide, and prints it to PDF.
type Handout struct {
	ChromeBin string
	Timeout   time.Duration
	Logger    *utils.Logger
}

// Export writes the PDF handout for deck to path.
func (h *Handout) Export(ctx context.Context, deck *models.Deck, path string) error {
	doc, err := RenderHTML(deck)
	if err != nil {
		return err
	}

	chromeBin := h.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	h.Logger.Info("[handout] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(doc)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(10).
				WithPaperHeight(7.5).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		return fmt.Errorf("handout: print pdf: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("handout: create output dir: %w", err)
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("handout: write %q: %w", path, err)
	}
	h.Logger.Info("[handout] PDF handout saved to %s (%d bytes)", path, len(pdf))
	return nil
}

type htmlSlide struct {
	models.Slide
	ImageURI template.URL
}

// RenderHTML lays the deck out as a printable HTML document with images inlined.
func RenderHTML(deck *models.Deck) ([]byte, error) {
	slides := make([]htmlSlide, len(deck.Slides))
	for i, s := range deck.Slides {
		slides[i] = htmlSlide{Slide: s}
		if s.Image == "" {
			continue
		}
		data, err := os.ReadFile(s.Image)
		if err != nil {
			return nil, fmt.Errorf("handout: slide %d image: %w", i+1, err)
		}
		slides[i].ImageURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data))
	}

	var buf bytes.Buffer
	if err := handoutTmpl.Execute(&buf, struct {
		Title  string
		Slides []htmlSlide
	}{deck.Title, slides}); err != nil {
		return nil, fmt.Errorf("handout: render html: %w", err)
	}
	return buf.Bytes(), nil
}

var handoutTmpl = template.Must(template.New("handout").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
@page { size: 10in 7.5in; margin: 0; }
body { margin: 0; background: #1e1e2e; font-family: "Fira Code", monospace; }
section { width: 10in; height: 7.5in; box-sizing: border-box; padding: 0.5in 0.7in; page-break-after: always; overflow: hidden; }
h1 { color: #cdd6f4; font-size: 36pt; margin: 0; }
.bar { background: #cba6f7; width: 7.6in; height: 0.1in; margin: 0.1in 0 0.2in; }
p { color: #a6adc8; font-size: 20pt; margin: 0; white-space: pre; min-height: 1em; }
pre { color: #a6adc8; background: #313244; border: 1px solid #cba6f7; border-radius: 0.15in; font-size: 14pt; padding: 0.2in; margin: 0; }
img { display: block; width: 6.5in; margin: 0.3in 0 0 0.8in; }
</style></head><body>
{{range .Slides}}<section>
<h1>{{.Title}}</h1>
<div class="bar"></div>
{{if .Mono}}<pre>{{range .Body}}{{.}}
{{end}}</pre>{{else}}{{range .Body}}<p>{{.}}</p>
{{end}}{{end}}{{if .ImageURI}}<img src="{{.ImageURI}}" alt="{{.Title}}">{{end}}
</section>
{{end}}</body></html>
`))

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
