package services

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"pii-deck/models"
	"pii-deck/utils"
)

// ChartStyle is the fixed look of the bar chart.
type ChartStyle struct {
	Background color.Color
	Text       color.Color
	Palette    map[string]color.Color
	Fallback   color.Color
	Title      string
	XLabel     string
	YLabel     string
	Width      vg.Length
	Height     vg.Length
	DPI        int
}

// MochaChartStyle returns the Catppuccin Mocha card-type chart style.
func MochaChartStyle(dpi int) ChartStyle {
	return ChartStyle{
		Background: MustHex("#1e1e2e"),
		Text:       MustHex("#cdd6f4"),
		Palette: map[string]color.Color{
			"VISA":       MustHex("#cba6f7"),
			"MASTERCARD": MustHex("#89b4fa"),
			"DISCOVER":   MustHex("#f2cdcd"),
			"AMEX":       MustHex("#fab387"),
		},
		Fallback: MustHex("#ffffff"),
		Title:    "Card Type Distribution",
		XLabel:   "Card Type",
		YLabel:   "Number of Users",
		Width:    6 * vg.Inch,
		Height:   4 * vg.Inch,
		DPI:      dpi,
	}
}

// ColorFor returns the palette colour for category, or the fallback.
func (s ChartStyle) ColorFor(category string) color.Color {
	if c, ok := s.Palette[category]; ok {
		return c
	}
	return s.Fallback
}

// Unused returns the palette categories that do not occur in ft, sorted.
func (s ChartStyle) Unused(ft *models.FrequencyTable) []string {
	var out []string
	for category := range s.Palette {
		if ft.Get(category) == 0 {
			out = append(out, category)
		}
	}
	sort.Strings(out)
	return out
}

// ChartRenderer draws frequency tables as PNG bar charts.
type ChartRenderer struct {
	style  ChartStyle
	logger *utils.Logger
}

func NewChartRenderer(style ChartStyle, logger *utils.Logger) *ChartRenderer {
	return &ChartRenderer{style: style, logger: logger}
}

// Plot builds the chart: one bar per entry, in table order.
func (r *ChartRenderer) Plot(ft *models.FrequencyTable) (*plot.Plot, error) {
	st := r.style
	p := plot.New()
	p.BackgroundColor = st.Background

	p.Title.Text = st.Title
	p.Title.TextStyle.Color = st.Text
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = st.XLabel
	p.Y.Label.Text = st.YLabel

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Color = st.Text
		ax.LineStyle.Color = st.Text
		ax.Tick.Label.Color = st.Text
		ax.Tick.LineStyle.Color = st.Text
	}
	p.Y.Min = 0
	p.Y.Tick.Marker = countTicks{}

	names := make([]string, len(ft.Entries))
	for i, e := range ft.Entries {
		names[i] = e.Category
		bars, err := plotter.NewBarChart(plotter.Values{float64(e.Count)}, vg.Points(40))
		if err != nil {
			return nil, fmt.Errorf("chart: bar %q: %w", e.Category, err)
		}
		bars.XMin = float64(i)
		bars.Color = st.ColorFor(e.Category)
		bars.LineStyle.Width = 0
		if _, known := st.Palette[e.Category]; !known {
			r.logger.Debug("[chart] Category %q not in palette; using fallback colour", e.Category)
		}
		p.Add(bars)
	}
	if len(names) > 0 {
		p.NominalX(names...)
	}
	if unused := st.Unused(ft); len(unused) > 0 {
		r.logger.Debug("[chart] No rows for %s", strings.Join(unused, ", "))
	}
	return p, nil
}

// Render draws ft and writes the PNG to path, replacing any existing file.
func (r *ChartRenderer) Render(ft *models.FrequencyTable, path string) error {
	p, err := r.Plot(ft)
	if err != nil {
		return err
	}

	dpi := r.style.DPI
	if dpi <= 0 {
		dpi = vgimg.DefaultDPI
	}
	c := vgimg.NewWith(
		vgimg.UseWH(r.style.Width, r.style.Height),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(r.style.Background),
	)
	p.Draw(draw.New(c))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("chart: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("chart: create %q: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("chart: encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("chart: close %q: %w", path, err)
	}

	r.logger.Info("[chart] Card type chart saved to %s", path)
	return nil
}

// countTicks labels the count axis with whole numbers only.
type countTicks struct{}

func (countTicks) Ticks(min, max float64) []plot.Tick {
	top := math.Ceil(max)
	if top < 1 {
		top = 1
	}
	step := math.Ceil(top / 5)
	var ticks []plot.Tick
	for v := 0.0; v <= top; v += step {
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.Itoa(int(v))})
	}
	return ticks
}

// MustHex parses "#rrggbb" into an opaque colour. It panics on malformed input.
func MustHex(s string) color.Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseHex parses "#rrggbb" or "rrggbb" into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("chart: colour %q must be 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("chart: colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
