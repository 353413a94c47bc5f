// Package config holds the typed vntyper configuration and its viper binding.
package config

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults for the motif filtering block.
const (
	DefaultPositionThreshold = 60
	DefaultSentinelAlt       = "GG"
)

// DefaultKmerSizes is the order in which Kestrel k-mer sizes are tried.
var DefaultKmerSizes = []int{20, 17, 25, 41}

// Config is the full vntyper configuration.
type Config struct {
	ReferenceData ReferenceData `mapstructure:"reference_data" yaml:"reference_data" toml:"reference_data"`
	Kestrel       Kestrel       `mapstructure:"kestrel_settings" yaml:"kestrel_settings" toml:"kestrel_settings"`
	Cohort        Cohort        `mapstructure:"cohort" yaml:"cohort" toml:"cohort"`
}

// ReferenceData points at the motif FASTA files.
type ReferenceData struct {
	MUC1ReferenceVNTR string `mapstructure:"muc1_reference_vntr" yaml:"muc1_reference_vntr" toml:"muc1_reference_vntr"`
	MUC1MotifsRevCom  string `mapstructure:"muc1_motifs_rev_com" yaml:"muc1_motifs_rev_com" toml:"muc1_motifs_rev_com"`
}

// Kestrel configures the genotyper run and the interpretation of its calls.
type Kestrel struct {
	JavaPath       string         `mapstructure:"java_path" yaml:"java_path" toml:"java_path"`
	JavaMemory     string         `mapstructure:"java_memory" yaml:"java_memory" toml:"java_memory"`
	Jar            string         `mapstructure:"jar" yaml:"jar" toml:"jar"`
	KmerSizes      []int          `mapstructure:"kmer_sizes" yaml:"kmer_sizes" toml:"kmer_sizes"`
	MaxAlignStates int            `mapstructure:"max_align_states" yaml:"max_align_states" toml:"max_align_states"`
	MaxHapStates   int            `mapstructure:"max_hap_states" yaml:"max_hap_states" toml:"max_hap_states"`
	MotifFiltering MotifFiltering `mapstructure:"motif_filtering" yaml:"motif_filtering" toml:"motif_filtering"`
	Confidence     Confidence     `mapstructure:"confidence" yaml:"confidence" toml:"confidence"`
}

// MotifFiltering controls motif resolution. Every field is honoured as
// supplied; nothing here is hard-coded in the resolver.
type MotifFiltering struct {
	// PositionThreshold splits calls into the left half (POS below it) and
	// the right half of the compound repeat unit.
	PositionThreshold int `mapstructure:"position_threshold" yaml:"position_threshold" toml:"position_threshold"`
	// ExcludeMotifsRight is applied to the right half when the sentinel ALT is present.
	ExcludeMotifsRight []string `mapstructure:"exclude_motifs_right" yaml:"exclude_motifs_right" toml:"exclude_motifs_right"`
	// AltForMotifRightGG is the sentinel ALT.
	AltForMotifRightGG string `mapstructure:"alt_for_motif_right_gg" yaml:"alt_for_motif_right_gg" toml:"alt_for_motif_right_gg"`
	// MotifsForAltGG is the allow-list used once the sentinel branch is taken.
	MotifsForAltGG        []string `mapstructure:"motifs_for_alt_gg" yaml:"motifs_for_alt_gg" toml:"motifs_for_alt_gg"`
	ExcludeAltsCombined   []string `mapstructure:"exclude_alts_combined" yaml:"exclude_alts_combined" toml:"exclude_alts_combined"`
	ExcludeMotifsCombined []string `mapstructure:"exclude_motifs_combined" yaml:"exclude_motifs_combined" toml:"exclude_motifs_combined"`
}

// Confidence controls post-scoring filtering.
type Confidence struct {
	ExcludeLowPrecision bool `mapstructure:"exclude_low_precision" yaml:"exclude_low_precision" toml:"exclude_low_precision"`
}

// Cohort configures the cohort result store.
type Cohort struct {
	Database string `mapstructure:"database" yaml:"database" toml:"database"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Kestrel: Kestrel{
			JavaPath:       "java",
			JavaMemory:     "15g",
			KmerSizes:      append([]int(nil), DefaultKmerSizes...),
			MaxAlignStates: 30,
			MaxHapStates:   30,
			MotifFiltering: DefaultMotifFiltering(),
		},
	}
}

// DefaultMotifFiltering returns the motif filtering defaults: threshold 60,
// sentinel "GG", all lists empty.
func DefaultMotifFiltering() MotifFiltering {
	return MotifFiltering{
		PositionThreshold:     DefaultPositionThreshold,
		ExcludeMotifsRight:    []string{},
		AltForMotifRightGG:    DefaultSentinelAlt,
		MotifsForAltGG:        []string{},
		ExcludeAltsCombined:   []string{},
		ExcludeMotifsCombined: []string{},
	}
}

// SetDefaults registers the built-in values with v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("kestrel_settings.java_path", d.Kestrel.JavaPath)
	v.SetDefault("kestrel_settings.java_memory", d.Kestrel.JavaMemory)
	v.SetDefault("kestrel_settings.kmer_sizes", d.Kestrel.KmerSizes)
	v.SetDefault("kestrel_settings.max_align_states", d.Kestrel.MaxAlignStates)
	v.SetDefault("kestrel_settings.max_hap_states", d.Kestrel.MaxHapStates)

	mf := d.Kestrel.MotifFiltering
	v.SetDefault("kestrel_settings.motif_filtering.position_threshold", mf.PositionThreshold)
	v.SetDefault("kestrel_settings.motif_filtering.exclude_motifs_right", mf.ExcludeMotifsRight)
	v.SetDefault("kestrel_settings.motif_filtering.alt_for_motif_right_gg", mf.AltForMotifRightGG)
	v.SetDefault("kestrel_settings.motif_filtering.motifs_for_alt_gg", mf.MotifsForAltGG)
	v.SetDefault("kestrel_settings.motif_filtering.exclude_alts_combined", mf.ExcludeAltsCombined)
	v.SetDefault("kestrel_settings.motif_filtering.exclude_motifs_combined", mf.ExcludeMotifsCombined)
	v.SetDefault("kestrel_settings.confidence.exclude_low_precision", false)
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make a run meaningless.
func (c *Config) Validate() error {
	var errs []error
	if c.Kestrel.MotifFiltering.PositionThreshold < 0 {
		errs = append(errs, fmt.Errorf("motif_filtering.position_threshold must be >= 0, got %d",
			c.Kestrel.MotifFiltering.PositionThreshold))
	}
	if c.Kestrel.MotifFiltering.AltForMotifRightGG == "" {
		errs = append(errs, errors.New("motif_filtering.alt_for_motif_right_gg must not be empty"))
	}
	for _, k := range c.Kestrel.KmerSizes {
		if k <= 0 {
			errs = append(errs, fmt.Errorf("kestrel_settings.kmer_sizes: invalid k-mer size %d", k))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Marshal renders the configuration as "yaml" or "toml".
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case "yaml", "yml", "":
		out, err := yaml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("marshaling config: %w", err)
		}
		return out, nil
	case "toml":
		out, err := toml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("marshaling config: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}

// ParseTOML decodes a TOML document on top of the defaults.
func ParseTOML(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
