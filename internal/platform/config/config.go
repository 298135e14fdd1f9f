package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string

	MatrixBaseURL    string
	Container        string
	FallbackArtifact string
	RequestTimeout   time.Duration

	EnableVerbFallback bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "matrixgate"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	baseURL := strings.TrimSpace(os.Getenv("MATRIX_API_BASE_URL"))
	if baseURL == "" {
		return Config{}, errors.New("MATRIX_API_BASE_URL is required")
	}

	container := strings.TrimSpace(os.Getenv("MATRIX_CONTAINER"))
	if container == "" {
		container = "matrices"
	}

	fallback := strings.TrimSpace(os.Getenv("MATRIX_FALLBACK_ARTIFACT"))
	if fallback == "" {
		fallback = "initial-matrix.b64"
	}

	timeout := 30 * time.Second
	if raw := strings.TrimSpace(os.Getenv("MATRIX_REQUEST_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, errors.New("MATRIX_REQUEST_TIMEOUT_SECONDS must be a positive integer")
		}
		timeout = time.Duration(seconds) * time.Second
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,

		MatrixBaseURL:    strings.TrimRight(baseURL, "/"),
		Container:        container,
		FallbackArtifact: fallback,
		RequestTimeout:   timeout,

		EnableVerbFallback: envBool("ENABLE_VERB_FALLBACK", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
