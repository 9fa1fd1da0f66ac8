package extract

import (
	"testing"
)

const recipeHTML = `<!DOCTYPE html>
<html>
<head>
  <meta name="description" content="A cozy apple pie with a flaky crust, perfect for autumn baking.">
  <title>Apple Pie Recipe</title>
</head>
<body>
  <h1>Grandma's Apple Pie</h1>
  <div class="recipe-image"><img src="https://example.com/images/apple-pie.jpg" alt="pie"></div>
  <span class="review-average">4.7</span>
  <span class="prep-time">20 min</span>
  <span class="cook-time">50 min</span>
  <span class="total-time">70 min</span>
  <ul class="recipe-ingredients__list">
    <li>6 cups sliced apples</li>
    <li>1 cup sugar</li>
    <li>2 tablespoons butter</li>
    <li></li>
  </ul>
  <ol>
    <li class="recipe-directions__item">Preheat oven to 425 degrees.</li>
    <li class="recipe-directions__item">Combine apples and sugar in the crust.</li>
    <li class="recipe-directions__item">Bake until golden.</li>
  </ol>
  <div class="nutrition-section">
    <ul>
      <li>Calories: 320</li>
      <li>Fat: 12g</li>
      <li>no separator here</li>
    </ul>
  </div>
  <a class="category-link" href="/desserts/">Desserts</a>
  <a class="category-link" href="/pies/">Pies</a>
</body>
</html>`

func TestRecipeExtractsFields(t *testing.T) {
	t.Parallel()

	rec, err := Recipe("https://example.com/recipes/apple-pie/", recipeHTML)
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}

	if rec.URL != "https://example.com/recipes/apple-pie/" {
		t.Fatalf("unexpected URL: %q", rec.URL)
	}
	if rec.Title != "Grandma's Apple Pie" {
		t.Fatalf("unexpected title: %q", rec.Title)
	}
	if rec.Description == "" {
		t.Fatalf("expected description from meta tag")
	}
	if rec.ImageURL != "https://example.com/images/apple-pie.jpg" {
		t.Fatalf("unexpected image URL: %q", rec.ImageURL)
	}
	if len(rec.Ingredients) != 3 {
		t.Fatalf("expected 3 ingredients (empty item dropped), got %v", rec.Ingredients)
	}
	if rec.Ingredients[0] != "6 cups sliced apples" {
		t.Fatalf("unexpected first ingredient: %q", rec.Ingredients[0])
	}
	if len(rec.Instructions) != 3 {
		t.Fatalf("expected 3 instructions, got %v", rec.Instructions)
	}
	if rec.Rating != "4.7" {
		t.Fatalf("unexpected rating: %q", rec.Rating)
	}
	if rec.PrepTime != "20 min" || rec.CookTime != "50 min" || rec.TotalTime != "70 min" {
		t.Fatalf("unexpected times: %q %q %q", rec.PrepTime, rec.CookTime, rec.TotalTime)
	}
	if rec.Nutrition["Calories"] != "320" || rec.Nutrition["Fat"] != "12g" {
		t.Fatalf("unexpected nutrition: %v", rec.Nutrition)
	}
	if len(rec.Nutrition) != 2 {
		t.Fatalf("expected malformed nutrition line to be dropped, got %v", rec.Nutrition)
	}
	if len(rec.Categories) != 2 || rec.Categories[0] != "Desserts" {
		t.Fatalf("unexpected categories: %v", rec.Categories)
	}
	if len(rec.Keywords) == 0 {
		t.Fatalf("expected keywords to be extracted")
	}
	if rec.FetchedAt.IsZero() {
		t.Fatalf("expected fetched timestamp to be set")
	}
}

func TestRecipeStepFallbackSelector(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<h1>Toast</h1>
<ul class="recipe-ingredients__list"><li>1 slice bread</li></ul>
<ol><li class="step">Toast the bread.</li><li class="step">Serve.</li></ol>
</body></html>`

	rec, err := Recipe("https://example.com/recipes/toast/", html)
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
	if len(rec.Instructions) != 2 {
		t.Fatalf("expected fallback step selector to apply, got %v", rec.Instructions)
	}
	if rec.Instructions[0] != "Toast the bread." {
		t.Fatalf("unexpected first step: %q", rec.Instructions[0])
	}
}

func TestRecipeImageFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "primary image class",
			html: `<html><body><img class="primary-image" src="/a.jpg"></body></html>`,
			want: "/a.jpg",
		},
		{
			name: "first image on the page",
			html: `<html><body><p><img src="/b.jpg"></p></body></html>`,
			want: "/b.jpg",
		},
		{
			name: "no image at all",
			html: `<html><body><p>text only</p></body></html>`,
			want: "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, err := Recipe("https://example.com/recipes/x/", tt.html)
			if err != nil {
				t.Fatalf("Recipe() error = %v", err)
			}
			if rec.ImageURL != tt.want {
				t.Fatalf("ImageURL = %q, want %q", rec.ImageURL, tt.want)
			}
		})
	}
}

func TestRecipeMissingElementsYieldEmptyFields(t *testing.T) {
	t.Parallel()

	rec, err := Recipe("https://example.com/not-a-recipe/", "<html><body><p>hi</p></body></html>")
	if err != nil {
		t.Fatalf("Recipe() error = %v", err)
	}
	if rec.Title != "" || len(rec.Ingredients) != 0 || len(rec.Instructions) != 0 {
		t.Fatalf("expected empty fields for a non-recipe page: %+v", rec)
	}
	if rec.Nutrition != nil {
		t.Fatalf("expected nil nutrition map, got %v", rec.Nutrition)
	}
}
