package search

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Rezmii/media-library/internal/models"
)

// Field weights only matter relative to each other; they do not need to
// sum to 1. Title dominates, the identity field (artist/author) comes
// second, long-form text barely nudges the score.
const (
	weightTitle       = 0.7
	weightSecondary   = 0.2
	weightDescription = 0.1

	// scoreThreshold is the maximum acceptable dissimilarity; 0 is an
	// exact match, 1 no match at all.
	scoreThreshold = 0.4

	maxResults = 20
)

// Rank scores every candidate against the query across its weighted text
// fields, drops candidates above the dissimilarity threshold, and returns
// the survivors best-first, capped to maxResults. Ties keep the insertion
// order of the candidate list.
func Rank(candidates []models.MediaItem, query string) []models.MediaItem {
	q := fold(query)
	if q == "" {
		return nil
	}

	type scored struct {
		item  models.MediaItem
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		score := combinedScore(c, q)
		if score > scoreThreshold {
			continue
		}
		ranked = append(ranked, scored{item: c, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	out := make([]models.MediaItem, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}

// combinedScore is the weighted mean of per-field scores. The title always
// participates, even when empty; the secondary and description fields only
// count when the type carries them, so a movie is not punished for having
// no author.
func combinedScore(item models.MediaItem, foldedQuery string) float64 {
	sum := weightTitle * fieldScore(foldedQuery, fold(item.Title))
	total := weightTitle

	if s := item.Meta.Secondary(); s != "" {
		sum += weightSecondary * fieldScore(foldedQuery, fold(s))
		total += weightSecondary
	}
	if d := item.Meta.Description(); d != "" {
		sum += weightDescription * fieldScore(foldedQuery, fold(d))
		total += weightDescription
	}
	return sum / total
}

// fieldScore measures how far the query is from the best-matching region
// of the field text, in [0,1]. The match is position-independent: the
// query may land anywhere in the field without penalty.
func fieldScore(query, text string) float64 {
	if text == "" {
		return 1
	}
	if strings.Contains(text, query) {
		return 0
	}
	return substringDistance(query, text)
}

// substringDistance computes the minimum edit distance between the query
// and any substring of text, normalized by query length. Row zero is free,
// so the alignment may start at any position in text; the minimum over the
// final row lets it end anywhere too.
func substringDistance(query, text string) float64 {
	q := []rune(query)
	t := []rune(text)

	prev := make([]int, len(t)+1)
	curr := make([]int, len(t)+1)

	for i := 1; i <= len(q); i++ {
		curr[0] = i
		for j := 1; j <= len(t); j++ {
			cost := 1
			if q[i-1] == t[j-1] {
				cost = 0
			}
			curr[j] = prev[j] + 1
			if del := curr[j-1] + 1; del < curr[j] {
				curr[j] = del
			}
			if sub := prev[j-1] + cost; sub < curr[j] {
				curr[j] = sub
			}
		}
		prev, curr = curr, prev
	}

	best := prev[0]
	for _, d := range prev {
		if d < best {
			best = d
		}
	}

	score := float64(best) / float64(len(q))
	if score > 1 {
		score = 1
	}
	return score
}

// foldTransformer strips combining marks after canonical decomposition, so
// "żółć" and "zolc" compare equal.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// asciiReplacer handles letters NFD cannot decompose.
var asciiReplacer = strings.NewReplacer(
	"ł", "l", "Ł", "L",
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
	"ß", "ss",
)

func fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(asciiReplacer.Replace(folded))
}
