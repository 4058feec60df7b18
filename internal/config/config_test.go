package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCredentials(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "client-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "client-secret")
	t.Setenv("OPENAI_API_KEY", "sk-test-key-0123456789")

	creds, err := GetCredentials()
	require.NoError(t, err)
	assert.Equal(t, "client-id", creds.SpotifyClientID)
	assert.Equal(t, "client-secret", creds.SpotifyClientSecret)
	assert.Equal(t, "sk-test-key-0123456789", creds.OpenAIAPIKey)
}

func TestGetCredentials_MissingSecret(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "client-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "")
	t.Setenv("OPENAI_API_KEY", "sk-test-key-0123456789")

	_, err := GetCredentials()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SPOTIFY_CLIENT_SECRET")
}

func TestGetCredentials_BadOpenAIKeyFormat(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "client-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "client-secret")
	t.Setenv("OPENAI_API_KEY", "not-an-openai-key")

	_, err := GetCredentials()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadPolicy_Defaults(t *testing.T) {
	policy, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), policy)
	assert.Equal(t, 30*time.Second, policy.DurationTolerance())
	assert.Equal(t, 15*time.Second, policy.LookupTimeout())
	assert.Equal(t, 10*time.Minute, policy.DownloadTimeout())
}

func TestLoadPolicy_PartialOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("similarity_threshold: 0.8\nmax_feed_candidates: 3\n"), 0o644))

	policy, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 0.8, policy.SimilarityThreshold)
	assert.Equal(t, 3, policy.MaxFeedCandidates)
	// untouched fields keep their defaults
	assert.Equal(t, DefaultPolicy().MaxAudioBytes, policy.MaxAudioBytes)
	assert.Equal(t, DefaultPolicy().WhisperModel, policy.WhisperModel)
}

func TestLoadPolicy_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("similarity_threshold: 1.5\n"), 0o644))

	_, err := LoadPolicy(path)
	require.Error(t, err)
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
