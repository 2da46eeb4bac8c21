package services

import (
	"fmt"
	"strings"

	"pii-deck/models"
	"pii-deck/utils"
)

// DeckOptions carries the data-independent text of the presentation.
type DeckOptions struct {
	Author      string
	Date        string
	SourcePath  string
	CleanedPath string
	PreviewRows int
}

// DeckBuilder assembles the fixed seven-slide presentation.
type DeckBuilder struct {
	opts   DeckOptions
	logger *utils.Logger
}

func NewDeckBuilder(opts DeckOptions, logger *utils.Logger) *DeckBuilder {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = 5
	}
	return &DeckBuilder{opts: opts, logger: logger}
}

// Build returns the slide sequence for the cleaned table and chart image.
// Only the preview slide depends on the table; the count and order are fixed.
func (b *DeckBuilder) Build(cleaned *models.Table, chartPath string) *models.Deck {
	o := b.opts

	steps := []string{
		fmt.Sprintf("1. Load the data from '%s'", o.SourcePath),
		"2. Rename columns for easier handling",
		"3. Extract ZIP from ADDRESS before dropping",
		"4. Remove PII columns",
		"5. Scrub the data for PII",
	}

	titleBody := []string{"Prepared by: " + o.Author, "Date: " + o.Date}
	if o.Author == "" {
		titleBody = []string{"Date: " + o.Date}
	}

	preview := cleaned.Head(o.PreviewRows)
	previewBody := []string{"The cleaned data preview:", ""}
	previewBody = append(previewBody, strings.Split(preview.String(), "\n")...)
	previewBody = append(previewBody, "", fmt.Sprintf("The cleaned data has been saved to '%s'.", o.CleanedPath))

	deck := &models.Deck{
		Title:  "Data Cleaning Project",
		Author: o.Author,
		Slides: []models.Slide{
			{Title: "Data Cleaning Project", Body: titleBody},
			{Title: "Objectives", Body: append(append([]string{}, steps...), "6. Save the cleaned data to output folder")},
			{Title: "Original Dataset Overview", Body: []string{
				"The original dataset contains various columns,",
				"including PII such as:",
				"- Full Name",
				"- SSN",
				"- Credit Card Number",
				"- Address",
				"- Date of Birth",
				"- Phone Number",
				"",
				"The goal is to protect user privacy while",
				"preserving useful information.",
			}},
			{Title: "Data Cleaning Steps", Body: append(append([]string{}, steps...),
				fmt.Sprintf("6. Save the cleaned data to '%s'", o.CleanedPath))},
			{Title: "Tools Used", Body: []string{
				"1. Go",
				"2. excelize",
				"3. Regex PII scrubber",
				"4. gonum/plot",
				"5. Office Open XML writer",
				"",
				"These tools were used to load, clean, and present",
				"the process.",
			}},
			{Title: "Cleaned Data Preview", Body: previewBody, Mono: true},
			{Title: "Card Type Distribution", Body: []string{
				"The chart below shows the distribution of card types",
				"in the dataset:",
			}, Image: chartPath},
		},
	}

	b.logger.Info("[deck] Built %d slides (preview: %d rows x %d columns)",
		len(deck.Slides), len(preview.Rows), len(preview.Header))
	return deck
}
