package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"pii-deck/utils"
)

var (
	envFile    string
	schemaPath string
	verbose    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		utils.NewLogger().Error("%v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "piideck",
	Short: "Clean a PII spreadsheet and present the result as a slide deck",
	Long: `piideck runs a three-stage pipeline over a spreadsheet of synthetic PII:

  clean   read the workbook, derive ZIP from ADDRESS, drop identifier
          columns, redact remaining free text and write a CSV
  chart   count the card type column of the cleaned CSV and render a PNG
  deck    build a seven-slide presentation from the CSV and the chart

Each stage reads the previous stage's output from disk. Paths and options
come from environment variables or a .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the source workbook into a CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.clean(cmd.Context())
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the card type bar chart from the cleaned CSV",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.chart()
	},
}

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Build the presentation from the cleaned CSV and chart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.deck(cmd.Context())
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run clean, chart and deck in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "dotenv file to load (default .env)")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "", "column contract YAML (overrides SCHEMA_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(cleanCmd, chartCmd, deckCmd, runCmd)
}
