package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	// Portal access.
	BaseURL string
	Sites   []string
	Timeout time.Duration

	// Export artifacts.
	LongCSVPath string
	WideCSVPath string

	// Pipeline policy.
	MaxSampleDepth           float64
	SubstituteDetectionLimit bool

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	timeoutStr := envOrDefault("WQP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid WQP_TIMEOUT")
	}

	maxDepth, err := parseMaxDepth()
	if err != nil {
		return nil, err
	}

	substitute, err := parseBoolEnv("WQ_SUBSTITUTE_DETECTION_LIMIT", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:                  envOrDefault("WQP_BASE_URL", "https://www.waterqualitydata.us"),
		Sites:                    parseSites(envOrDefault("WQP_SITES", "USGS-05427948,WIDNR_WQX-133338")),
		Timeout:                  timeout,
		LongCSVPath:              envOrDefault("WQ_LONG_CSV", "data/wq_long.csv"),
		WideCSVPath:              envOrDefault("WQ_WIDE_CSV", "data/wq_wide.csv"),
		MaxSampleDepth:           maxDepth,
		SubstituteDetectionLimit: substitute,
		LogLevel:                 envOrDefault("LOG_LEVEL", "info"),
		LogFormat:                envOrDefault("LOG_FORMAT", "json"),
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid WQP_BASE_URL: %w", err)
	}
	if len(cfg.Sites) == 0 {
		return nil, errors.New("WQP_SITES is required")
	}
	if cfg.LongCSVPath == "" {
		return nil, errors.New("WQ_LONG_CSV is required")
	}
	if cfg.WideCSVPath == "" {
		return nil, errors.New("WQ_WIDE_CSV is required")
	}

	return cfg, nil
}

// parseSites splits a comma-separated site list, dropping empty entries.
func parseSites(s string) []string {
	var sites []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			sites = append(sites, part)
		}
	}
	return sites
}

func parseMaxDepth() (float64, error) {
	s := envOrDefault("WQ_MAX_SAMPLE_DEPTH", "1")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, errors.New("invalid WQ_MAX_SAMPLE_DEPTH")
	}
	return v, nil
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
