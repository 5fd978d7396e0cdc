// Package relevance ranks content items against a user's stated
// interests using tiered keyword weights. Scores are ranking keys only,
// comparable within one batch.
package relevance

import (
	"sort"
	"strings"

	"daily5/internal/core"
	"daily5/internal/recency"
)

const (
	phraseWeight  = 3.0
	wordWeight    = 1.0
	synonymWeight = 0.5
)

// synonyms expands coarse interest categories into related keywords.
var synonyms = map[string][]string{
	"ai":       {"machine learning", "llm", "neural", "gpt", "deep learning", "transformer"},
	"web3":     {"blockchain", "crypto", "ethereum", "defi", "smart contract"},
	"startup":  {"founder", "funding", "seed round", "venture", "yc"},
	"cloud":    {"kubernetes", "aws", "serverless", "docker", "terraform"},
	"security": {"vulnerability", "cve", "exploit", "encryption", "zero-day"},
	"mobile":   {"ios", "android", "swift", "kotlin", "flutter"},
}

// Score computes the relevance of one item against the interest list.
// Empty interests yield zero; the caller decides whether that means
// "include everything".
func Score(item core.ContentItem, interests []string) float64 {
	if len(interests) == 0 {
		return 0
	}

	blob := strings.ToLower(item.Title + " " + item.Description + " " + strings.Join(item.Keywords, " "))

	var score float64
	for _, interest := range interests {
		phrase := strings.ToLower(strings.TrimSpace(interest))
		if phrase == "" {
			continue
		}
		if strings.Contains(blob, phrase) {
			score += phraseWeight
		}
		for _, word := range strings.Fields(phrase) {
			if len(word) > 3 && strings.Contains(blob, word) {
				score += wordWeight
			}
		}
		for _, related := range synonyms[phrase] {
			if strings.Contains(blob, related) {
				score += synonymWeight
			}
		}
	}
	return score
}

// DiversityScores assigns each item a penalty-derived score favoring
// underrepresented sources within the batch. An item from a source
// contributing many items scores lower than one from a rare source.
func DiversityScores(items []core.ContentItem) []float64 {
	counts := map[string]int{}
	for _, item := range items {
		counts[item.Source]++
	}

	scores := make([]float64, len(items))
	for i, item := range items {
		scores[i] = 1.0 / float64(counts[item.Source])
	}
	return scores
}

// Rank scores every item and returns them ordered by relevance, then
// diversity, then recency, all descending. The sort is stable, so items
// tied on all three keys keep their fetch order. With no interests the
// batch passes through unscored in its original order.
func Rank(items []core.ContentItem, interests []string) []core.ScoredItem {
	diversity := DiversityScores(items)

	scored := make([]core.ScoredItem, len(items))
	for i, item := range items {
		scored[i] = core.ScoredItem{
			ContentItem: item,
			Relevance:   Score(item, interests),
			Diversity:   diversity[i],
		}
	}

	if len(interests) == 0 {
		return scored
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Relevance != scored[j].Relevance {
			return scored[i].Relevance > scored[j].Relevance
		}
		if scored[i].Diversity != scored[j].Diversity {
			return scored[i].Diversity > scored[j].Diversity
		}
		ti, iok := recency.ParseTimestamp(scored[i].PublishedAt)
		tj, jok := recency.ParseTimestamp(scored[j].PublishedAt)
		if iok && jok {
			return ti.After(tj)
		}
		return false
	})
	return scored
}

// TopK returns the first k ranked items, or everything when the batch is
// smaller.
func TopK(scored []core.ScoredItem, k int) []core.ScoredItem {
	if k <= 0 || len(scored) <= k {
		return scored
	}
	return scored[:k]
}
