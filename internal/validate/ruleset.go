package validate

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_ruleset.yaml
var defaultRulesetYAML []byte

// Ruleset holds the denylists and thresholds the validator applies.
// Loaded from YAML so the lists can be tuned without a rebuild.
type Ruleset struct {
	EthicalBlocklist struct {
		FinancialRisk []string `yaml:"financial_risk"`
		Gambling      []string `yaml:"gambling"`
		HealthClaims  []string `yaml:"health_claims"`
	} `yaml:"ethical_blocklist"`

	SpeculativeWords      []string `yaml:"speculative_words"`
	SpeculativeThreshold  int      `yaml:"speculative_threshold"`
	VagueBenchmarkPhrases []string `yaml:"vague_benchmark_phrases"`
	AttributionIndicators []string `yaml:"attribution_indicators"`
	FabricationIndicators []string `yaml:"fabrication_indicators"`
	BannedPhrases         []string `yaml:"banned_phrases"`
	URLPlaceholderPhrases []string `yaml:"url_placeholder_phrases"`
	WeakConnectionPhrases []string `yaml:"weak_connection_phrases"`

	WordCount struct {
		Min int `yaml:"min"`
		Max int `yaml:"max"`
	} `yaml:"word_count"`
}

// DefaultRuleset parses the embedded ruleset.
func DefaultRuleset() (*Ruleset, error) {
	return parseRuleset(defaultRulesetYAML)
}

// LoadRuleset reads a ruleset from a YAML file, or the embedded default
// when path is empty.
func LoadRuleset(path string) (*Ruleset, error) {
	if path == "" {
		return DefaultRuleset()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset: %w", err)
	}
	return parseRuleset(data)
}

func parseRuleset(data []byte) (*Ruleset, error) {
	var rules Ruleset
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset: %w", err)
	}
	if rules.WordCount.Min <= 0 {
		rules.WordCount.Min = 80
	}
	if rules.WordCount.Max <= 0 {
		rules.WordCount.Max = 250
	}
	if rules.SpeculativeThreshold <= 0 {
		rules.SpeculativeThreshold = 2
	}
	return &rules, nil
}
