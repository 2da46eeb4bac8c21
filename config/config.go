package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SourceXLSXPath string
	SourceSheet    string
	CleanedCSVPath string
	ChartPNGPath   string
	DeckPPTXPath   string
	DeckPDFPath    string
	SchemaPath     string

	ChartDPI    int
	PreviewRows int
	DeckAuthor  string
	DeckDate    string
	LogLevel    string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MaxRetries       int
	RetentionDays    int

	ChromeBin string
}

// Load reads the given dotenv files (".env" when none are given) and returns a
// populated Config. A missing dotenv file is not an error.
func Load(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		SourceXLSXPath: getEnv("SOURCE_XLSX_PATH", "data/FAKE-datasetPII.xlsx"),
		SourceSheet:    getEnv("SOURCE_SHEET", ""),
		CleanedCSVPath: getEnv("CLEANED_CSV_PATH", "output/cleaned_data.csv"),
		ChartPNGPath:   getEnv("CHART_PNG_PATH", "output/card_type_chart.png"),
		DeckPPTXPath:   getEnv("DECK_PPTX_PATH", "slides/data_cleaning_presentation.pptx"),
		DeckPDFPath:    getEnv("DECK_PDF_PATH", ""),
		SchemaPath:     getEnv("SCHEMA_PATH", ""),

		ChartDPI:    getEnvInt("CHART_DPI", 300),
		PreviewRows: getEnvInt("PREVIEW_ROWS", 5),
		DeckAuthor:  getEnv("DECK_AUTHOR", "Anastasia Parks Altamirano"),
		DeckDate:    getEnv("DECK_DATE", "2025-05-03"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "piideck"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "piideck"),
		PostgresDB:       getEnv("POSTGRES_DB", "piideck"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 5),
		RetentionDays:    getEnvInt("POSTGRES_RETENTION_DAYS", 0),

		ChromeBin: getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err == nil {
			return b
		}
	}
	return fallback
}
