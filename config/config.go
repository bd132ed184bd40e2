package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort        string
	MaxUploadSize     int64 // request body cap for the API, in bytes
	LogLevel          string
	RulesFile         string
	RateWindow        int
	OCREnabled        bool
	OCRLanguages      []string
	TesseractDataPath string
}

// LoadConfig reads the environment, after loading a .env file when one exists.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env file: %v", err)
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	tesseractDataPath := os.Getenv("TESSDATA_PREFIX")
	if tesseractDataPath == "" {
		tesseractDataPath = "/usr/share/tesseract-ocr/5/tessdata/"
	}

	languages := strings.Split(envOr("OCR_LANGUAGES", "ara,eng"), ",")
	for i := range languages {
		languages[i] = strings.TrimSpace(languages[i])
	}

	return &Config{
		ServerPort:        serverPort,
		MaxUploadSize:     int64(envInt("MAX_UPLOAD_MB", 32)) << 20,
		LogLevel:          envOr("LOG_LEVEL", "info"),
		RulesFile:         os.Getenv("RULES_FILE"),
		RateWindow:        envInt("RATE_WINDOW", 0),
		OCREnabled:        envBool("OCR_ENABLED", false),
		OCRLanguages:      languages,
		TesseractDataPath: tesseractDataPath,
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("Ignoring invalid %s=%q", key, v)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Ignoring invalid %s=%q", key, v)
		return fallback
	}
	return b
}
