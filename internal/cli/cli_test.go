package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/lexdiff/internal/model"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"terms.json vs terms.json", "terms.json-vs-terms.json"},
		{"privacy policy", "privacy-policy"},
		{"a/b:c*d?e", "a_b_c_d_e"},
		{"  ..  ", "report"},
		{"", "report"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}

	long := sanitizeFilename(strings.Repeat("é", 150))
	assert.Len(t, []rune(long), 100)
}

func TestUniqueSlug(t *testing.T) {
	used := make(map[string]int)
	assert.Equal(t, "terms", uniqueSlug("terms", used))
	assert.Equal(t, "terms-2", uniqueSlug("terms", used))
	assert.Equal(t, "terms-3", uniqueSlug("terms", used))
	assert.Equal(t, "privacy", uniqueSlug("privacy", used))
}

func TestExceeds(t *testing.T) {
	report := &model.Report{Changes: []model.LegalChange{
		{Impact: model.ImpactLow},
		{Impact: model.ImpactHigh},
	}}

	assert.True(t, exceeds(report, model.ImpactLow))
	assert.True(t, exceeds(report, model.ImpactHigh))
	assert.False(t, exceeds(report, model.ImpactCritical))
	assert.False(t, exceeds(&model.Report{}, model.ImpactLow))
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lexdiff", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Zero(t, cfg.Compare.SimilarityThreshold)
	assert.Equal(t, "lexical", cfg.Analyzer.Provider)
	assert.Equal(t, 24*time.Hour, cfg.Analyzer.CacheTTL)

	assert.Error(t, writeDefaultConfig(path), "existing config must not be overwritten")
}

func TestRegisterDefaults(t *testing.T) {
	v := viper.New()
	registerDefaults(v)

	assert.Zero(t, v.GetFloat64("compare.similarity_threshold"))
	assert.Equal(t, "hashing", v.GetString("embedder.provider"))
	assert.Equal(t, 30*time.Second, v.GetDuration("fetch.timeout"))

	t.Setenv("LEXDIFF_COMPARE_SIMILARITY_THRESHOLD", "0.9")
	v.SetEnvPrefix("LEXDIFF")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	var cfg model.Config
	require.NoError(t, v.Unmarshal(&cfg))
	assert.Equal(t, 0.9, cfg.Compare.SimilarityThreshold)
	assert.Equal(t, 7*24*time.Hour, cfg.Embedder.CacheTTL)
	assert.Equal(t, model.DefaultIgnoreKeys, cfg.Compare.IgnoreKeys)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "", redact(""))
	assert.Equal(t, "********", redact("sk-secret"))
}
