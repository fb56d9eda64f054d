// Package config loads pipeline settings from the environment. A local .env
// file is honoured when present so development runs do not need exported
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default values for statement processing. Each can be overridden via the
// corresponding environment variable.
const (
	// DefaultPrimaryModel is the cheap/fast tier used for the first
	// extraction pass.
	DefaultPrimaryModel = "gemini-2.5-flash"

	// DefaultEscalationModel is the strictly stronger tier used when the
	// primary pass fails validation.
	DefaultEscalationModel = "gemini-2.5-pro"

	// DefaultDetectionModel is the small tier used for the bank
	// identification call.
	DefaultDetectionModel = "gemini-2.5-flash-lite"

	// DefaultCostCeiling is the per-statement spend ceiling in USD.
	DefaultCostCeiling = 0.25

	// DefaultDecryptTimeout bounds a single qpdf invocation.
	DefaultDecryptTimeout = 20 * time.Second

	// DefaultModelTimeout bounds a single model call.
	DefaultModelTimeout = 60 * time.Second

	// DefaultQPDFPath is the decryption tool binary; resolved via PATH when
	// not absolute.
	DefaultQPDFPath = "qpdf"

	// DefaultHTTPAddr is the statement service listen address.
	DefaultHTTPAddr = ":8080"

	// DefaultUploadDir is where uploaded statement PDFs are staged until a
	// worker picks them up.
	DefaultUploadDir = "/tmp/statement-uploads"
)

// Config carries every tunable the pipeline reads at startup.
type Config struct {
	// GeminiAPIKey authenticates the genai client. The client also honours
	// GEMINI_API_KEY directly; the field exists so hosts can check it early.
	GeminiAPIKey string

	QPDFPath string

	PrimaryModel    string
	EscalationModel string
	DetectionModel  string

	CostCeiling float64

	DecryptTimeout time.Duration
	ModelTimeout   time.Duration

	HTTPAddr  string
	UploadDir string
}

// Load reads configuration from the environment, after loading a .env file
// if one exists in the working directory.
func Load() (*Config, error) {
	// Missing .env is fine; exported variables still apply.
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		QPDFPath:        envOr("QPDF_PATH", DefaultQPDFPath),
		PrimaryModel:    envOr("PRIMARY_MODEL", DefaultPrimaryModel),
		EscalationModel: envOr("ESCALATION_MODEL", DefaultEscalationModel),
		DetectionModel:  envOr("DETECTION_MODEL", DefaultDetectionModel),
		CostCeiling:     DefaultCostCeiling,
		DecryptTimeout:  DefaultDecryptTimeout,
		ModelTimeout:    DefaultModelTimeout,
		HTTPAddr:        envOr("HTTP_ADDR", DefaultHTTPAddr),
		UploadDir:       envOr("UPLOAD_DIR", DefaultUploadDir),
	}

	if v := os.Getenv("COST_CEILING"); v != "" {
		ceiling, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("config: invalid COST_CEILING %q: %w", v, err)
		}
		cfg.CostCeiling = ceiling
	}

	if v := os.Getenv("DECRYPT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid DECRYPT_TIMEOUT %q: %w", v, err)
		}
		cfg.DecryptTimeout = d
	}

	if v := os.Getenv("MODEL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid MODEL_TIMEOUT %q: %w", v, err)
		}
		cfg.ModelTimeout = d
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
