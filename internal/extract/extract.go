package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/culinary-data/recipe-crawler/internal/recipe"
)

// Selectors for tasteofhome.com recipe pages. Missing elements yield empty
// fields rather than errors; a page without ingredients is treated as not a
// recipe by the caller.
const (
	selTitle        = "h1"
	selDescription  = "meta[name=description]"
	selIngredients  = "ul.recipe-ingredients__list li"
	selInstructions = "li.recipe-directions__item"
	selStepFallback = "li.step"
	selRating       = "span.review-average"
	selPrepTime     = "span.prep-time"
	selCookTime     = "span.cook-time"
	selTotalTime    = "span.total-time"
	selNutrition    = "div.nutrition-section li"
	selCategories   = "a.category-link"
)

// Recipe parses the rendered HTML of one recipe page into a record.
func Recipe(rawURL, html string) (recipe.Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("parse recipe page %s: %w", rawURL, err)
	}

	rec := recipe.Recipe{
		URL:          rawURL,
		Title:        text(doc, selTitle),
		Description:  attr(doc, selDescription, "content"),
		ImageURL:     imageURL(doc),
		Ingredients:  texts(doc, selIngredients),
		Instructions: instructions(doc),
		Rating:       text(doc, selRating),
		PrepTime:     text(doc, selPrepTime),
		CookTime:     text(doc, selCookTime),
		TotalTime:    text(doc, selTotalTime),
		Nutrition:    nutrition(doc),
		Categories:   texts(doc, selCategories),
		FetchedAt:    time.Now().UTC(),
	}
	rec.Keywords = Keywords(rec.Description, rec.Instructions, 10)
	return rec, nil
}

func text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

func attr(doc *goquery.Document, selector, name string) string {
	v, _ := doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

func texts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func instructions(doc *goquery.Document) []string {
	steps := texts(doc, selInstructions)
	if len(steps) == 0 {
		steps = texts(doc, selStepFallback)
	}
	return steps
}

func imageURL(doc *goquery.Document) string {
	for _, selector := range []string{"div.recipe-image img", "img.primary-image", "img"} {
		if src, ok := doc.Find(selector).First().Attr("src"); ok && strings.TrimSpace(src) != "" {
			return strings.TrimSpace(src)
		}
	}
	return ""
}

func nutrition(doc *goquery.Document) map[string]string {
	var facts map[string]string
	doc.Find(selNutrition).Each(func(_ int, s *goquery.Selection) {
		line := strings.TrimSpace(s.Text())
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			return
		}
		if facts == nil {
			facts = make(map[string]string)
		}
		facts[key] = value
	})
	return facts
}
