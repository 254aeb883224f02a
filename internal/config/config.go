package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Store         string // memory | file | sql | dynamo
	DataDir       string
	DatabaseURL   string
	DynamoTable   string
	AWSRegion     string
	ExportEnabled bool
	ExportFile    string
	LogLevel      string
	LogFormat     string // console | json
}

// LoadDotEnv loads variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.Store = strings.ToLower(getenv("STORE", "file"))
	c.DataDir = getenv("DATA_DIR", "./data")
	c.DatabaseURL = getenv("DATABASE_URL", "rummypool.db")
	c.DynamoTable = os.Getenv("DYNAMO_TABLE")
	c.AWSRegion = getenv("AWS_REGION", "eu-central-1")
	c.ExportEnabled = getenv("EXPORT_ENABLED", "false") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./rummypool-ledger.txt")
	c.LogLevel = strings.ToLower(getenv("LOG_LEVEL", "info"))
	c.LogFormat = strings.ToLower(getenv("LOG_FORMAT", "console"))
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
