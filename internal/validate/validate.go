// Package validate gates enriched recommendation batches with a
// rule engine before they may reach the email layer.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"daily5/internal/core"
)

const (
	// MinBatchSize and MaxBatchSize bound an acceptable batch.
	MinBatchSize = 3
	MaxBatchSize = 5
)

var (
	returnClaimRegex = regexp.MustCompile(`\d+%\s*(monthly|yearly|annual|daily)?\s*(returns|profit|roi|gains)`)
	urlRegex         = regexp.MustCompile(`https?://[^\s<>"']+`)

	genericPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bcould\s+\w+\s+(your|the)\s+\w+`),
		regexp.MustCompile(`\bwould\s+be\s+(great|perfect|useful)`),
		regexp.MustCompile(`\bdirectly\s+benefits?\b`),
	}
)

// Validator applies a Ruleset to generated batches.
type Validator struct {
	rules *Ruleset
}

func NewValidator(rules *Ruleset) *Validator {
	return &Validator{rules: rules}
}

// ValidateBatch checks a candidate batch against every rule. In the
// default mode only errors carrying a REJECTED tag block the batch and
// everything else degrades to a warning; strict mode promotes all errors
// to hard rejects.
func (v *Validator) ValidateBatch(items []core.GeneratedItem, evidence core.Evidence, strict bool) core.ValidationResult {
	var errors, warnings []string

	if len(items) < MinBatchSize {
		return core.ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("REJECTED: need at least %d quality items, got %d", MinBatchSize, len(items))},
		}
	}
	if len(items) > MaxBatchSize {
		return core.ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("REJECTED: maximum %d items allowed, got %d", MaxBatchSize, len(items))},
		}
	}
	if len(items) < MaxBatchSize {
		warnings = append(warnings, fmt.Sprintf("generated %d items, fewer than %d is acceptable when quality is high", len(items), MaxBatchSize))
	}

	repoMentions := 0
	var scores []core.Confidence

	for i, item := range items {
		itemErrors, itemWarnings, mentionsRepo := v.validateItem(item, evidence, i+1, strict)
		errors = append(errors, itemErrors...)
		warnings = append(warnings, itemWarnings...)
		if mentionsRepo {
			repoMentions++
		}

		confidence := v.ConfidenceScore(item, evidence)
		scores = append(scores, confidence)
		warnings = append(warnings, fmt.Sprintf("item %d confidence: %d/100 (%s)", i+1, confidence.Score, confidence.Level))
	}

	if strict && len(errors) > 0 {
		return core.ValidationResult{Valid: false, Errors: errors, Warnings: warnings}
	}

	var critical []string
	for _, e := range errors {
		if strings.Contains(e, "REJECTED") {
			critical = append(critical, e)
		} else {
			warnings = append(warnings, e)
		}
	}
	if len(critical) > 0 {
		return core.ValidationResult{Valid: false, Errors: critical, Warnings: warnings}
	}

	var total int
	for _, c := range scores {
		total += c.Score
	}
	avg := 0.0
	if len(scores) > 0 {
		avg = float64(total) / float64(len(scores))
	}

	return core.ValidationResult{
		Valid:    true,
		Warnings: warnings,
		Stats: core.ValidationStats{
			TotalItems:    len(items),
			RepoMentions:  repoMentions,
			AvgConfidence: avg,
			Confidence:    scores,
		},
	}
}

func (v *Validator) validateItem(item core.GeneratedItem, evidence core.Evidence, num int, strict bool) (errors, warnings []string, mentionsRepo bool) {
	body := strings.ToLower(item.Body)

	errors = append(errors, v.checkEthical(body, num)...)
	errors = append(errors, v.checkFabrication(body, num)...)
	errors = append(errors, v.checkBenchmarkAttribution(body, num)...)
	warnings = append(warnings, v.checkSpeculativeLanguage(body, num)...)

	words := len(strings.Fields(item.Body))
	if words < v.rules.WordCount.Min || words > v.rules.WordCount.Max {
		msg := fmt.Sprintf("item %d: %d words, expected %d-%d", num, words, v.rules.WordCount.Min, v.rules.WordCount.Max)
		if strict {
			errors = append(errors, "REJECTED: "+msg)
		} else {
			warnings = append(warnings, msg)
		}
	}

	for _, phrase := range v.rules.BannedPhrases {
		if strings.Contains(body, phrase) {
			errors = append(errors, fmt.Sprintf("item %d REJECTED: contains generic phrase %q", num, phrase))
		}
	}
	for _, pattern := range genericPatterns {
		if pattern.MatchString(body) {
			errors = append(errors, fmt.Sprintf("item %d REJECTED: contains generic hedged phrasing, needs measurable claims", num))
			break
		}
	}

	errors = append(errors, v.checkURL(item, body, num)...)

	mentionsRepo = mentionsActiveRepo(body, evidence)
	if mentionsRepo {
		for _, phrase := range v.rules.WeakConnectionPhrases {
			if strings.Contains(body, phrase) {
				errors = append(errors, fmt.Sprintf("item %d REJECTED: weak connection to repo, drop the mention if it is not relevant", num))
				break
			}
		}
		if !hasFileLineReference(item.Body) {
			warnings = append(warnings, fmt.Sprintf("item %d: mentions a repo without file or line specifics", num))
		}
	}

	if !hasRecentDate(body) {
		warnings = append(warnings, fmt.Sprintf("item %d: no specific date or recency mention", num))
	}

	return errors, warnings, mentionsRepo
}

func (v *Validator) checkEthical(body string, num int) []string {
	var errors []string
	categories := []struct {
		name  string
		terms []string
	}{
		{"financial risk", v.rules.EthicalBlocklist.FinancialRisk},
		{"gambling", v.rules.EthicalBlocklist.Gambling},
		{"health claim", v.rules.EthicalBlocklist.HealthClaims},
	}
	for _, cat := range categories {
		for _, term := range cat.terms {
			if strings.Contains(body, term) {
				errors = append(errors, fmt.Sprintf("item %d REJECTED - ETHICAL: contains %s content %q", num, cat.name, term))
			}
		}
	}
	if returnClaimRegex.MatchString(body) {
		errors = append(errors, fmt.Sprintf("item %d REJECTED - ETHICAL: contains return or profit percentage claims", num))
	}
	return errors
}

func (v *Validator) checkFabrication(body string, num int) []string {
	var errors []string
	for _, indicator := range v.rules.FabricationIndicators {
		if strings.Contains(body, indicator) {
			errors = append(errors, fmt.Sprintf("item %d REJECTED: contains likely unverifiable claim %q", num, indicator))
		}
	}
	return errors
}

func (v *Validator) checkBenchmarkAttribution(body string, num int) []string {
	for _, phrase := range v.rules.VagueBenchmarkPhrases {
		if !strings.Contains(body, phrase) {
			continue
		}
		attributed := false
		for _, indicator := range v.rules.AttributionIndicators {
			if strings.Contains(body, indicator) {
				attributed = true
				break
			}
		}
		if !attributed {
			return []string{fmt.Sprintf("item %d REJECTED: vague claim %q without source attribution", num, phrase)}
		}
	}
	return nil
}

func (v *Validator) checkSpeculativeLanguage(body string, num int) []string {
	count := 0
	var found []string
	for _, word := range v.rules.SpeculativeWords {
		if strings.Contains(body, word) {
			count++
			found = append(found, word)
		}
	}
	if count > v.rules.SpeculativeThreshold {
		if len(found) > 3 {
			found = found[:3]
		}
		return []string{fmt.Sprintf("item %d: speculative language used %d times (%s)", num, count, strings.Join(found, ", "))}
	}
	return nil
}

func (v *Validator) checkURL(item core.GeneratedItem, body string, num int) []string {
	var errors []string

	inlineURLs := urlRegex.FindAllString(item.Body, -1)
	hasItemURL := isRealURL(item.URL)

	if len(inlineURLs) == 0 && !hasItemURL {
		errors = append(errors, fmt.Sprintf("item %d REJECTED: no actual URL, must include a real clickable link", num))

		for _, phrase := range v.rules.URLPlaceholderPhrases {
			if strings.Contains(body, phrase) {
				errors = append(errors, fmt.Sprintf("item %d REJECTED: placeholder phrase %q with no actual URL", num, phrase))
				break
			}
		}
	}
	return errors
}

// isRealURL rejects empty, anchor-only, and placeholder URL values.
func isRealURL(url string) bool {
	if url == "" || url == "#" {
		return false
	}
	if strings.Contains(strings.ToLower(url), "placeholder") {
		return false
	}
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func mentionsActiveRepo(body string, evidence core.Evidence) bool {
	for _, repo := range evidence.ActiveRepos {
		if repo.Name != "" && strings.Contains(body, strings.ToLower(repo.Name)) {
			return true
		}
	}
	return false
}

var fileLineRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\w+\.(py|js|ts|java|go|rs|rb|php|cpp|jsx|tsx)\s*\(lines?\s+\d+(-\d+)?\)`),
	regexp.MustCompile(`\w+\.(py|js|ts|java|go|rs|rb|php|cpp|jsx|tsx):\d+`),
	regexp.MustCompile(`(?i)\w+\.(py|js|ts|java|go|rs|rb|php|cpp|jsx|tsx)\s*\(\d+\s+lines?\)`),
}

func hasFileLineReference(body string) bool {
	for _, re := range fileLineRegexes {
		if re.MatchString(body) {
			return true
		}
	}
	return false
}

var months = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var dayAfterMonthRegex = regexp.MustCompile(`\d{1,2}(st|nd|rd|th)?`)

// hasRecentDate looks for a month with a specific day, or a relative
// time phrase. A bare month or year does not count.
func hasRecentDate(body string) bool {
	for _, month := range months {
		idx := strings.Index(body, month)
		if idx < 0 {
			continue
		}
		end := idx + len(month) + 30
		if end > len(body) {
			end = len(body)
		}
		if dayAfterMonthRegex.MatchString(body[idx+len(month) : end]) {
			return true
		}
	}
	for _, phrase := range []string{"yesterday", "today", "this week", "last week", "announced on", "released on"} {
		if strings.Contains(body, phrase) {
			return true
		}
	}
	return false
}
