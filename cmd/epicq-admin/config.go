package main

import (
	"epicq/lib/constants"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// config mirrors the SSM parameters the Lambda functions read, taken from the
// environment instead
type config struct {
	DBHost         string
	DBPort         string
	DBName         string
	DBUser         string
	DBPassword     string
	SSLMode        string
	MaxPeriods     int
	StrictSchedule bool
	ArchiveBucket  string
	UserPoolID     string
	IsLocal        bool
	LogLevel       string
}

// loadConfig reads envFile when present, then the environment. Variables already set
// in the environment win over the file.
func loadConfig(envFile string) (*config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &config{
		DBHost:        getEnv("DATABASE_RDS_ENDPOINT", "localhost"),
		DBPort:        getEnv("DATABASE_PORT", "5432"),
		DBName:        getEnv("DATABASE_NAME", "epicq"),
		DBUser:        getEnv("DATABASE_USERNAME", "postgres"),
		DBPassword:    os.Getenv("DATABASE_PASSWORD"),
		SSLMode:       getEnv("SSL_MODE", "disable"),
		MaxPeriods:    constants.DEFAULT_MAX_RECRUITMENT_PERIODS,
		ArchiveBucket: os.Getenv("DELETION_ARCHIVE_BUCKET"),
		UserPoolID:    os.Getenv("COGNITO_USER_POOL_ID"),
		LogLevel:      getEnv("LOG_LEVEL", "warn"),
	}
	cfg.IsLocal, _ = strconv.ParseBool(os.Getenv("IS_LOCAL"))

	if v := os.Getenv("MAX_RECRUITMENT_PERIODS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("MAX_RECRUITMENT_PERIODS must be a positive integer, got %q", v)
		}
		cfg.MaxPeriods = n
	}
	if v := os.Getenv("STRICT_PERIOD_SCHEDULE"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("STRICT_PERIOD_SCHEDULE must be a boolean, got %q", v)
		}
		cfg.StrictSchedule = strict
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
