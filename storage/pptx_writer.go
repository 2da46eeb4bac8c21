package storage

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"pii-deck/models"
)

// emuPerInch converts inches to the EMU units OOXML drawing coordinates use.
const emuPerInch = 914400

func inches(v float64) int64 { return int64(v * emuPerInch) }

// Theme holds the colours (RRGGBB, no leading #) and font applied to every slide.
type Theme struct {
	Background string
	Title      string
	Body       string
	Box        string
	Accent     string
	Font       string
}

// MochaTheme is the Catppuccin Mocha palette the deck is styled with.
var MochaTheme = Theme{
	Background: "1E1E2E",
	Title:      "CDD6F4",
	Body:       "A6ADC8",
	Box:        "313244",
	Accent:     "CBA6F7",
	Font:       "Fira Code",
}

// pptxEpoch is stamped on every zip entry so identical decks produce identical bytes.
var pptxEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// PPTXWriter renders a Deck as an Office Open XML presentation on a 10in x 7.5in page.
type PPTXWriter struct {
	Theme Theme
}

// NewPPTXWriter returns a writer using the given theme.
func NewPPTXWriter(theme Theme) *PPTXWriter {
	return &PPTXWriter{Theme: theme}
}

type shapeXML struct {
	ID   int
	Name string
	X, Y int64
	W, H int64
}

type textShape struct {
	shapeXML
	Lines []string
	Size  int
	Bold  bool
	Color string
	Font  string
}

type fillShape struct {
	shapeXML
	Preset string
	Fill   string
	Line   string
}

type picShape struct {
	shapeXML
	RelID string
}

type slideXML struct {
	Background string
	Fills      []fillShape
	Texts      []textShape
	Pictures   []picShape
}

type mediaFile struct {
	Name string
	Data []byte
}

// WriteDeck writes deck to path, creating parent directories and replacing any existing file.
func (w *PPTXWriter) WriteDeck(deck *models.Deck, path string) error {
	if len(deck.Slides) == 0 {
		return fmt.Errorf("pptx: deck has no slides")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("pptx: create output dir: %w", err)
	}

	var buf bytes.Buffer
	if err := w.encode(deck, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("pptx: write %q: %w", path, err)
	}
	return nil
}

func (w *PPTXWriter) encode(deck *models.Deck, buf *bytes.Buffer) error {
	zw := zip.NewWriter(buf)
	put := func(name string, data []byte) error {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: pptxEpoch,
		})
		if err != nil {
			return fmt.Errorf("pptx: add %s: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("pptx: write %s: %w", name, err)
		}
		return nil
	}
	render := func(name string, tmpl *template.Template, data any) error {
		var b bytes.Buffer
		if err := tmpl.Execute(&b, data); err != nil {
			return fmt.Errorf("pptx: render %s: %w", name, err)
		}
		return put(name, b.Bytes())
	}

	n := len(deck.Slides)
	if err := render("[Content_Types].xml", contentTypesTmpl, n); err != nil {
		return err
	}
	if err := put("_rels/.rels", []byte(rootRels)); err != nil {
		return err
	}
	if err := render("docProps/core.xml", coreTmpl, deck); err != nil {
		return err
	}
	if err := render("docProps/app.xml", appTmpl, n); err != nil {
		return err
	}
	if err := render("ppt/presentation.xml", presentationTmpl, n); err != nil {
		return err
	}
	if err := render("ppt/_rels/presentation.xml.rels", presentationRelsTmpl, n); err != nil {
		return err
	}
	statics := []struct{ name, body string }{
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRels},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRels},
		{"ppt/theme/theme1.xml", themeXML(w.Theme)},
		{"ppt/presProps.xml", presPropsXML},
		{"ppt/viewProps.xml", viewPropsXML},
		{"ppt/tableStyles.xml", tableStylesXML},
	}
	for _, s := range statics {
		if err := put(s.name, []byte(s.body)); err != nil {
			return err
		}
	}

	var media []mediaFile
	for i, slide := range deck.Slides {
		sx, img, err := w.layout(slide, len(media)+1)
		if err != nil {
			return fmt.Errorf("pptx: slide %d: %w", i+1, err)
		}
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		if err := render(name, slideTmpl, sx); err != nil {
			return err
		}
		rels := slideRelsData{}
		if img != nil {
			media = append(media, *img)
			rels.Image = img.Name
		}
		relName := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1)
		if err := render(relName, slideRelsTmpl, rels); err != nil {
			return err
		}
	}
	for _, m := range media {
		if err := put("ppt/media/"+m.Name, m.Data); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("pptx: finish archive: %w", err)
	}
	return nil
}

// layout places a slide's shapes: title, accent bar, body (plain or boxed mono) and picture.
func (w *PPTXWriter) layout(s models.Slide, mediaIndex int) (slideXML, *mediaFile, error) {
	t := w.Theme
	sx := slideXML{Background: t.Background}
	id := 2
	next := func(kind string) shapeXML {
		sh := shapeXML{ID: id, Name: fmt.Sprintf("%s %d", kind, id-1)}
		id++
		return sh
	}

	title := textShape{shapeXML: next("Title"), Lines: []string{s.Title}, Size: 36, Bold: true, Color: t.Title, Font: t.Font}
	title.X, title.Y, title.W, title.H = inches(0.7), inches(0.5), inches(8), inches(1)
	sx.Texts = append(sx.Texts, title)

	bar := fillShape{shapeXML: next("Accent"), Preset: "rect", Fill: t.Accent}
	bar.X, bar.Y, bar.W, bar.H = inches(0.7), inches(1.2), inches(7.6), inches(0.1)
	sx.Fills = append(sx.Fills, bar)

	if s.Mono {
		box := fillShape{shapeXML: next("Box"), Preset: "roundRect", Fill: t.Box, Line: t.Accent}
		box.X, box.Y, box.W, box.H = inches(0.7), inches(1.5), inches(8), inches(3.5)
		sx.Fills = append(sx.Fills, box)

		body := textShape{shapeXML: next("TextBox"), Lines: s.Body, Size: 14, Color: t.Body, Font: t.Font}
		body.X, body.Y, body.W, body.H = inches(0.9), inches(1.7), inches(7.6), inches(3.1)
		sx.Texts = append(sx.Texts, body)
	} else if len(s.Body) > 0 {
		body := textShape{shapeXML: next("TextBox"), Lines: s.Body, Size: 20, Color: t.Body, Font: t.Font}
		body.X, body.Y, body.W, body.H = inches(0.7), inches(1.5), inches(8), inches(5)
		sx.Texts = append(sx.Texts, body)
	}

	if s.Image == "" {
		return sx, nil, nil
	}

	data, err := os.ReadFile(s.Image)
	if err != nil {
		return sx, nil, fmt.Errorf("read image: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return sx, nil, fmt.Errorf("decode image %q: %w", s.Image, err)
	}
	if format != "png" || cfg.Width == 0 {
		return sx, nil, fmt.Errorf("image %q must be a non-empty png, got %s", s.Image, format)
	}

	pic := picShape{shapeXML: next("Picture"), RelID: "rId2"}
	pic.X, pic.Y, pic.W = inches(1.5), inches(2.8), inches(6.5)
	pic.H = pic.W * int64(cfg.Height) / int64(cfg.Width)
	sx.Pictures = append(sx.Pictures, pic)

	return sx, &mediaFile{Name: fmt.Sprintf("image%d.png", mediaIndex), Data: data}, nil
}

type slideRelsData struct {
	Image string
}

var funcs = template.FuncMap{
	"esc": func(s string) string {
		var b bytes.Buffer
		_ = xml.EscapeText(&b, []byte(s))
		return b.String()
	},
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
	"add":        func(a, b int) int { return a + b },
	"hundredths": func(pt int) int { return pt * 100 },
}
