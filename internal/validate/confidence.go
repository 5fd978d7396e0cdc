package validate

import (
	"fmt"
	"regexp"
	"strings"

	"daily5/internal/core"
)

var (
	quantitativeRegex = regexp.MustCompile(`\d+[,\d]*\s*(stars|users|downloads|tokens|lines|kb|mb|gb|files|commits)`)

	comparisonRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+x|\d+%)\s+(faster|slower|more|less|cheaper|better)\s+than`),
		regexp.MustCompile(`\bvs\.?\s+\w+`),
		regexp.MustCompile(`compared to`),
	}

	calculationRegexes = []*regexp.Regexp{
		regexp.MustCompile(`\$[\d.]+\s*[-+*/]\s*\$[\d.]+`),
		regexp.MustCompile(`\d+\s*\*\s*\d+`),
		regexp.MustCompile(`at \$[\d.]+ per`),
	}

	sourceIndicators = []string{
		"according to", "from official", "documentation confirms", "github shows",
		"readme states", "announced on", "released on",
	}

	technicalEvidence = []string{
		"package.json", "requirements.txt", "cargo.toml", "go.mod",
		"gemfile", "pom.xml", "dockerfile", "config.yml",
	}
)

// ConfidenceScore rates the evidentiary strength of one generated item.
// Three additive tiers: verifiable facts up to 40, benchmarks and
// comparisons up to 30, user-specific evidence up to 30. Reported for
// observability; never a reject criterion by itself.
func (v *Validator) ConfidenceScore(item core.GeneratedItem, evidence core.Evidence) core.Confidence {
	body := strings.ToLower(item.Body)

	facts := 0
	if isRealURL(item.URL) {
		facts += 10
	}
	if hasRecentDate(body) {
		facts += 10
	}
	if quantitativeRegex.MatchString(body) {
		facts += 10
	}
	for _, indicator := range sourceIndicators {
		if strings.Contains(body, indicator) {
			facts += 10
			break
		}
	}
	if facts > 40 {
		facts = 40
	}

	benchmarks := 0
	for _, re := range comparisonRegexes {
		if re.MatchString(body) {
			benchmarks += 15
			break
		}
	}
	for _, re := range calculationRegexes {
		if re.MatchString(item.Body) {
			benchmarks += 15
			break
		}
	}
	if benchmarks > 30 {
		benchmarks = 30
	}

	userEvidence := 0
	if mentionsActiveRepo(body, evidence) {
		userEvidence += 10
	}
	if hasFileLineReference(item.Body) {
		userEvidence += 10
	}
	for _, tech := range technicalEvidence {
		if strings.Contains(body, tech) {
			userEvidence += 10
			break
		}
	}
	if userEvidence > 30 {
		userEvidence = 30
	}

	score := facts + benchmarks + userEvidence
	level := "LOW"
	switch {
	case score >= 80:
		level = "HIGH"
	case score >= 50:
		level = "MEDIUM"
	}

	return core.Confidence{
		Score:        score,
		Level:        level,
		Facts:        facts,
		Benchmarks:   benchmarks,
		UserEvidence: userEvidence,
		Explanation:  explainConfidence(facts, benchmarks, userEvidence, level),
	}
}

func explainConfidence(facts, benchmarks, userEvidence int, level string) string {
	var parts []string
	if facts > 0 {
		parts = append(parts, fmt.Sprintf("verifiable facts (%d/40)", facts))
	}
	if benchmarks > 0 {
		parts = append(parts, fmt.Sprintf("benchmarks (%d/30)", benchmarks))
	}
	if userEvidence > 0 {
		parts = append(parts, fmt.Sprintf("user-specific evidence (%d/30)", userEvidence))
	}
	if len(parts) == 0 {
		return "no strong evidence detected"
	}
	return fmt.Sprintf("%s confidence from: %s", level, strings.Join(parts, ", "))
}
