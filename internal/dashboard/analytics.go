// Package dashboard serves the analytics API and the embedded web UI.
package dashboard

import (
	"sort"
	"strings"

	"github.com/culinary-data/recipe-crawler/internal/recipe"
)

// measurementWords are unit terms excluded from ingredient frequency counts.
var measurementWords = map[string]struct{}{
	"cup": {}, "cups": {}, "tablespoon": {}, "tablespoons": {},
	"teaspoon": {}, "teaspoons": {}, "ounce": {}, "ounces": {},
	"pound": {}, "pounds": {},
}

// WordCount pairs a term with its occurrence count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Complexity describes one recipe's size in the scatter chart.
type Complexity struct {
	Title            string  `json:"title"`
	URL              string  `json:"url"`
	IngredientCount  int     `json:"ingredient_count"`
	InstructionCount int     `json:"instruction_count"`
	Score            float64 `json:"score"`
}

// Analytics aggregates the recipe corpus for the dashboard charts.
type Analytics struct {
	TotalRecipes    int          `json:"total_recipes"`
	AvgIngredients  float64      `json:"avg_ingredients"`
	AvgInstructions float64      `json:"avg_instructions"`
	AvgComplexity   float64      `json:"avg_complexity"`
	TopIngredients  []WordCount  `json:"top_ingredients"`
	TopKeywords     []WordCount  `json:"top_keywords"`
	Complexity      []Complexity `json:"complexity"`
}

// Analyze computes corpus statistics. An empty corpus yields zero values and
// empty slices, never an error.
func Analyze(recipes []recipe.Recipe, topN int) Analytics {
	out := Analytics{
		TotalRecipes:   len(recipes),
		TopIngredients: []WordCount{},
		TopKeywords:    []WordCount{},
		Complexity:     []Complexity{},
	}
	if len(recipes) == 0 {
		return out
	}

	ingredientCounts := make(map[string]int)
	keywordCounts := make(map[string]int)
	var totalIngredients, totalInstructions int
	var totalComplexity float64

	for _, r := range recipes {
		totalIngredients += len(r.Ingredients)
		totalInstructions += len(r.Instructions)
		score := r.ComplexityScore()
		totalComplexity += score
		out.Complexity = append(out.Complexity, Complexity{
			Title:            r.Title,
			URL:              r.URL,
			IngredientCount:  len(r.Ingredients),
			InstructionCount: len(r.Instructions),
			Score:            score,
		})
		for _, ing := range r.Ingredients {
			for _, word := range strings.Fields(strings.ToLower(ing)) {
				if len(word) <= 3 {
					continue
				}
				if _, skip := measurementWords[word]; skip {
					continue
				}
				ingredientCounts[word]++
			}
		}
		for _, kw := range r.Keywords {
			keywordCounts[kw]++
		}
	}

	n := float64(len(recipes))
	out.AvgIngredients = float64(totalIngredients) / n
	out.AvgInstructions = float64(totalInstructions) / n
	out.AvgComplexity = totalComplexity / n
	out.TopIngredients = topCounts(ingredientCounts, topN)
	out.TopKeywords = topCounts(keywordCounts, topN)
	return out
}

func topCounts(counts map[string]int, n int) []WordCount {
	out := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		out = append(out, WordCount{Word: word, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Filter holds the recipe explorer query parameters.
type Filter struct {
	Query          string
	MinIngredients int
	MaxIngredients int
}

// Match reports whether the recipe passes the filter. The query matches
// case-insensitively against the title and the ingredient lines.
func (f Filter) Match(r recipe.Recipe) bool {
	count := len(r.Ingredients)
	if count < f.MinIngredients {
		return false
	}
	if f.MaxIngredients > 0 && count > f.MaxIngredients {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), q) {
			return true
		}
	}
	return false
}

// FilterRecipes applies the filter preserving order.
func FilterRecipes(recipes []recipe.Recipe, f Filter) []recipe.Recipe {
	out := make([]recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Paginate slices the list for a 1-based page of the given size.
func Paginate(recipes []recipe.Recipe, page, pageSize int) []recipe.Recipe {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(recipes) {
		return []recipe.Recipe{}
	}
	end := start + pageSize
	if end > len(recipes) {
		end = len(recipes)
	}
	return recipes[start:end]
}
