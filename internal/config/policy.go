package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Policy holds the tunable pipeline constants. Every field has a documented
// default; a YAML policy file overrides only the fields it sets.
type Policy struct {
	SimilarityThreshold  float64 `yaml:"similarity_threshold" validate:"gt=0,lte=1"`
	DurationToleranceSec int     `yaml:"duration_tolerance_sec" validate:"gte=0"`
	MaxFeedCandidates    int     `yaml:"max_feed_candidates" validate:"gt=0,lte=50"`
	MaxAudioBytes        int64   `yaml:"max_audio_bytes" validate:"gt=0"`
	LookupTimeoutSec     int     `yaml:"lookup_timeout_sec" validate:"gt=0"`
	DownloadTimeoutSec   int     `yaml:"download_timeout_sec" validate:"gt=0"`
	Language             string  `yaml:"language"`
	WhisperModel         string  `yaml:"whisper_model"`
}

// DefaultPolicy returns the built-in constants.
func DefaultPolicy() Policy {
	return Policy{
		SimilarityThreshold:  0.6,
		DurationToleranceSec: 30,
		MaxFeedCandidates:    5,
		MaxAudioBytes:        512 << 20,
		LookupTimeoutSec:     15,
		DownloadTimeoutSec:   600,
		Language:             "",
		WhisperModel:         "whisper-1",
	}
}

// LoadPolicy overlays the YAML file at path onto the defaults. An empty path
// returns the defaults unchanged.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, fmt.Errorf("parsing policy file %s: %w", path, err)
	}

	if err := validator.New().Struct(policy); err != nil {
		return Policy{}, fmt.Errorf("invalid policy in %s: %w", path, err)
	}
	return policy, nil
}

// DurationTolerance returns the tolerance as a duration.
func (p Policy) DurationTolerance() time.Duration {
	return time.Duration(p.DurationToleranceSec) * time.Second
}

// LookupTimeout returns the metadata and feed lookup timeout.
func (p Policy) LookupTimeout() time.Duration {
	return time.Duration(p.LookupTimeoutSec) * time.Second
}

// DownloadTimeout returns the audio download timeout.
func (p Policy) DownloadTimeout() time.Duration {
	return time.Duration(p.DownloadTimeoutSec) * time.Second
}
