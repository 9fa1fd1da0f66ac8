// Package recipe defines the recipe record and its flat-file persistence.
package recipe

import "time"

// Recipe is the structured record extracted from one recipe page. Records are
// immutable once written; a rerun for the same URL replaces the old record.
type Recipe struct {
	URL          string            `json:"url"`
	Title        string            `json:"title"`
	Description  string            `json:"description,omitempty"`
	ImageURL     string            `json:"image_url,omitempty"`
	Ingredients  []string          `json:"ingredients"`
	Instructions []string          `json:"instructions"`
	Rating       string            `json:"rating,omitempty"`
	PrepTime     string            `json:"prep_time,omitempty"`
	CookTime     string            `json:"cook_time,omitempty"`
	TotalTime    string            `json:"total_time,omitempty"`
	Nutrition    map[string]string `json:"nutrition,omitempty"`
	Categories   []string          `json:"categories,omitempty"`
	Keywords     []string          `json:"keywords,omitempty"`
	FetchedAt    time.Time         `json:"fetched_at"`
}

// ComplexityScore weighs ingredients against instruction count. The dashboard
// uses it for the complexity distribution chart.
func (r Recipe) ComplexityScore() float64 {
	return float64(len(r.Ingredients)) + 0.5*float64(len(r.Instructions))
}
