package tasks

import (
	"os"
	"strconv"
)

// Config tunes task assignment.
type Config struct {
	// DefaultWeeks is used when Assign is called with zero weeks.
	DefaultWeeks int

	// RequireCompleted rejects a new assignment while the learner's latest
	// task is not completed.
	RequireCompleted bool

	// MaxTokens and Temperature tune LLM descriptions.
	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{DefaultWeeks: 4, MaxTokens: 800, Temperature: 0.7}
}

// ConfigFromEnv reads LEARNPATH_TASK_* variables over the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v, err := strconv.Atoi(os.Getenv("LEARNPATH_TASK_DEFAULT_WEEKS")); err == nil && v > 0 {
		cfg.DefaultWeeks = v
	}
	if v, err := strconv.ParseBool(os.Getenv("LEARNPATH_TASK_REQUIRE_COMPLETED")); err == nil {
		cfg.RequireCompleted = v
	}
	return cfg
}
