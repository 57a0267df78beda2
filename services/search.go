package services

import (
	"sort"
	"strings"

	"accommodation/constants"
	"accommodation/models"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

var propertyTypeKeywords = map[int][]string{
	constants.PropertyTypeHotel:     {"hotel", "khach san", "ks", "penginapan"},
	constants.PropertyTypeVilla:     {"villa", "biet thu", "resort"},
	constants.PropertyTypeApartment: {"apartment", "apartemen", "can ho", "flat", "studio"},
}

type ScoredProperty struct {
	models.Property
	Score int `json:"score"`
}

func normalizeInput(input string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(input)))
}

func createMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

// calculateSimilarity is 1 - levenshtein distance / longer length
func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// parsePropertyType guesses the property type a query asks for, -1 when none
func parsePropertyType(query string) int {
	for _, t := range []int{constants.PropertyTypeHotel, constants.PropertyTypeVilla, constants.PropertyTypeApartment} {
		match := createMatcher(propertyTypeKeywords[t]).Closest(query)
		if match != "" && strings.Contains(query, match) {
			return t
		}
	}
	return -1
}

func uniqueProvinces(properties []models.Property) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range properties {
		v := normalizeInput(p.Province)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func nameScore(query, name string) int {
	n := normalizeInput(name)
	if n == "" {
		return 0
	}
	if strings.Contains(n, query) || strings.Contains(query, n) {
		return 25
	}
	best := 0.0
	for _, word := range strings.Fields(query) {
		if s := calculateSimilarity(word, n); s > best {
			best = s
		}
	}
	if s := calculateSimilarity(query, n); s > best {
		best = s
	}
	if best > 0.7 {
		return 15
	}
	return 0
}

func provinceScore(query, province string, cm *closestmatch.ClosestMatch) int {
	p := normalizeInput(province)
	if p == "" {
		return 0
	}
	if strings.Contains(query, p) {
		return 13
	}
	if cm != nil && cm.Closest(query) == p && calculateSimilarity(query, p) > 0.6 {
		return 8
	}
	return 0
}

// ScoreProperties ranks properties against a free text query; zero scores are dropped
func ScoreProperties(query string, properties []models.Property) []ScoredProperty {
	q := normalizeInput(query)
	if q == "" {
		out := make([]ScoredProperty, 0, len(properties))
		for _, p := range properties {
			out = append(out, ScoredProperty{Property: p})
		}
		return out
	}

	wantType := parsePropertyType(q)
	var cmProvince *closestmatch.ClosestMatch
	if provinces := uniqueProvinces(properties); len(provinces) > 0 {
		cmProvince = createMatcher(provinces)
	}

	scored := []ScoredProperty{}
	for _, p := range properties {
		score := nameScore(q, p.Name) + provinceScore(q, p.Province, cmProvince)
		if wantType != -1 && wantType == p.Type {
			score += 20
		}
		if score > 0 {
			scored = append(scored, ScoredProperty{Property: p, Score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
