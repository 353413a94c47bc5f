package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	mf := cfg.Kestrel.MotifFiltering
	assert.Equal(t, 60, mf.PositionThreshold)
	assert.Equal(t, "GG", mf.AltForMotifRightGG)
	assert.Empty(t, mf.ExcludeMotifsRight)
	assert.Empty(t, mf.MotifsForAltGG)
	assert.Empty(t, mf.ExcludeAltsCombined)
	assert.Empty(t, mf.ExcludeMotifsCombined)

	assert.Equal(t, []int{20, 17, 25, 41}, cfg.Kestrel.KmerSizes)
	assert.Equal(t, "java", cfg.Kestrel.JavaPath)
	assert.False(t, cfg.Kestrel.Confidence.ExcludeLowPrecision)
}

func TestLoad_YAML(t *testing.T) {
	doc := `
reference_data:
  muc1_reference_vntr: /ref/All_Pairwise_and_Self_Merged_MUC1_motifs_filtered.fa
  muc1_motifs_rev_com: /ref/MUC1_motifs_Rev_com.fa
kestrel_settings:
  kmer_sizes: [20, 17]
  motif_filtering:
    position_threshold: 55
    exclude_motifs_right: ["Q", "8"]
    alt_for_motif_right_gg: "GG"
    motifs_for_alt_gg: ["X"]
    exclude_alts_combined: ["CCGCC"]
    exclude_motifs_combined: ["6", "6p"]
  confidence:
    exclude_low_precision: true
cohort:
  database: /tmp/cohort.duckdb
`
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/ref/MUC1_motifs_Rev_com.fa", cfg.ReferenceData.MUC1MotifsRevCom)
	assert.Equal(t, []int{20, 17}, cfg.Kestrel.KmerSizes)
	// Unset keys keep their defaults
	assert.Equal(t, "15g", cfg.Kestrel.JavaMemory)

	mf := cfg.Kestrel.MotifFiltering
	assert.Equal(t, 55, mf.PositionThreshold)
	assert.Equal(t, []string{"Q", "8"}, mf.ExcludeMotifsRight)
	assert.Equal(t, []string{"X"}, mf.MotifsForAltGG)
	assert.Equal(t, []string{"CCGCC"}, mf.ExcludeAltsCombined)
	assert.Equal(t, []string{"6", "6p"}, mf.ExcludeMotifsCombined)
	assert.True(t, cfg.Kestrel.Confidence.ExcludeLowPrecision)
	assert.Equal(t, "/tmp/cohort.duckdb", cfg.Cohort.Database)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero threshold", func(c *Config) { c.Kestrel.MotifFiltering.PositionThreshold = 0 }, true},
		{"negative threshold", func(c *Config) { c.Kestrel.MotifFiltering.PositionThreshold = -1 }, false},
		{"empty sentinel", func(c *Config) { c.Kestrel.MotifFiltering.AltForMotifRightGG = "" }, false},
		{"bad kmer", func(c *Config) { c.Kestrel.KmerSizes = []int{20, 0} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMarshal_TOMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Kestrel.MotifFiltering.ExcludeAltsCombined = []string{"CCGCC", "CGGCG"}
	cfg.Cohort.Database = "cohort.duckdb"

	out, err := cfg.Marshal("toml")
	require.NoError(t, err)
	assert.Contains(t, string(out), "position_threshold = 60")

	parsed, err := ParseTOML(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Kestrel.KmerSizes, parsed.Kestrel.KmerSizes)
	assert.Equal(t, cfg.Kestrel.MotifFiltering.PositionThreshold, parsed.Kestrel.MotifFiltering.PositionThreshold)
	assert.Equal(t, cfg.Kestrel.MotifFiltering.ExcludeAltsCombined, parsed.Kestrel.MotifFiltering.ExcludeAltsCombined)
	assert.Equal(t, "GG", parsed.Kestrel.MotifFiltering.AltForMotifRightGG)
	assert.Equal(t, "cohort.duckdb", parsed.Cohort.Database)
}

func TestMarshal_YAML(t *testing.T) {
	cfg := Default()
	out, err := cfg.Marshal("yaml")
	require.NoError(t, err)
	assert.Contains(t, string(out), "alt_for_motif_right_gg: GG")

	_, err = cfg.Marshal("json")
	assert.Error(t, err)
}
