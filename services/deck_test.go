package services

import (
	"strings"
	"testing"

	"pii-deck/models"
)

func previewTable(rows int) *models.Table {
	t := models.NewTable([]string{"CARD TYPE", "ZIP"})
	for i := 0; i < rows; i++ {
		t.Append([]models.Cell{models.Text("VISA"), models.Text("62704")})
	}
	return t
}

func testDeckBuilder() *DeckBuilder {
	return NewDeckBuilder(DeckOptions{
		Author:      "Data Team",
		Date:        "2025-05-03",
		SourcePath:  "data/source.xlsx",
		CleanedPath: "output/cleaned.csv",
		PreviewRows: 3,
	}, newTestLogger())
}

func TestDeckHasFixedSlideSequence(t *testing.T) {
	for _, rows := range []int{0, 2, 50} {
		deck := testDeckBuilder().Build(previewTable(rows), "output/chart.png")

		titles := make([]string, len(deck.Slides))
		for i, s := range deck.Slides {
			titles[i] = s.Title
		}
		want := "Data Cleaning Project|Objectives|Original Dataset Overview|Data Cleaning Steps|Tools Used|Cleaned Data Preview|Card Type Distribution"
		if got := strings.Join(titles, "|"); got != want {
			t.Errorf("rows=%d: slide titles\n got %s\nwant %s", rows, got, want)
		}
	}
}

func TestDeckPreviewSlide(t *testing.T) {
	deck := testDeckBuilder().Build(previewTable(10), "output/chart.png")
	preview := deck.Slides[5]

	if !preview.Mono {
		t.Error("preview slide should be monospaced")
	}
	rows := 0
	for _, line := range preview.Body {
		if strings.HasSuffix(line, "VISA 62704") {
			rows++
		}
	}
	if rows != 3 {
		t.Errorf("preview rows: got %d, want 3", rows)
	}
	last := preview.Body[len(preview.Body)-1]
	if !strings.Contains(last, "output/cleaned.csv") {
		t.Errorf("preview should name the cleaned file, got %q", last)
	}
}

func TestDeckChartAndTitleSlides(t *testing.T) {
	deck := testDeckBuilder().Build(previewTable(1), "output/chart.png")

	if deck.Slides[6].Image != "output/chart.png" {
		t.Errorf("chart slide image: got %q", deck.Slides[6].Image)
	}
	for i, s := range deck.Slides[:6] {
		if s.Image != "" {
			t.Errorf("slide %d should not have an image", i+1)
		}
	}
	if got := strings.Join(deck.Slides[0].Body, "\n"); got != "Prepared by: Data Team\nDate: 2025-05-03" {
		t.Errorf("title slide body: %q", got)
	}
	if !strings.Contains(deck.Slides[1].Body[0], "data/source.xlsx") {
		t.Errorf("objectives should name the source file: %q", deck.Slides[1].Body[0])
	}
}
