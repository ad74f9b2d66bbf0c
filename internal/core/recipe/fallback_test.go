package recipe

import (
	"testing"

	"pantry-chef/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBuckets(t *testing.T) {
	r := testResolver()

	cases := map[string]string{
		"Creamy Garlic Pasta":  "pasta",
		"Greek Salad":          "salad",
		"Hearty Lentil Soup":   "soup",
		"Thai Green Curry":     "curry",
		"Vegetable Wok Medley": "stirfry",
		"Margherita Pizza":     "pizza",
		"Halloumi Burger":      "sandwich",
		"Mushroom Risotto":     "rice",
		"Chocolate Cake":       "general",
	}

	for title, want := range cases {
		assert.Equal(t, want, r.Classify(title), "title %q", title)
	}
}

func TestClassifyStableForMultiBucketTitles(t *testing.T) {
	r := testResolver()

	// "Pasta Soup" matches both the pasta and soup buckets; the sorted
	// bucket order makes pasta win every time.
	for i := 0; i < 200; i++ {
		assert.Equal(t, "pasta", r.Classify("Pasta Soup"))
	}

	// "Curry Fried Rice" matches both the curry and rice buckets.
	for i := 0; i < 200; i++ {
		assert.Equal(t, "curry", r.Classify("Curry Fried Rice"))
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	r := testResolver()
	assert.Equal(t, "pizza", r.Classify("MARGHERITA PIZZA"))
}

func TestImageForNeverEmpty(t *testing.T) {
	r := testResolver()

	assert.Equal(t, config.DefaultFallbackImages()["soup"], r.ImageFor("Miso Soup", nil))
	assert.Equal(t, config.DefaultFallbackImages()["general"], r.ImageFor("Mystery Dessert", nil))
	assert.NotEmpty(t, r.ImageFor("", nil))
}

func TestImageForConsidersIngredients(t *testing.T) {
	r := testResolver()
	got := r.ImageFor("Dinner Bowl", []string{"risotto", "parmesan"})
	assert.Equal(t, config.DefaultFallbackImages()["rice"], got)
}

func TestImageForCustomConfig(t *testing.T) {
	r := NewFallbackResolver(config.FallbackConfig{
		Keywords:     map[string][]string{"soup": {"soup"}},
		Images:       map[string]string{"soup": "https://example.com/soup.jpg"},
		DefaultImage: "https://example.com/default.jpg",
	})

	assert.Equal(t, "https://example.com/soup.jpg", r.ImageFor("Onion Soup", nil))
	assert.Equal(t, "https://example.com/default.jpg", r.ImageFor("Chocolate Cake", nil))
}

func TestDishLabel(t *testing.T) {
	r := testResolver()

	assert.Equal(t, "stir-fry", r.DishLabel("Chicken Wok Special"))
	assert.Equal(t, "rice dish", r.DishLabel("Paella"))
	assert.Equal(t, "dish", r.DishLabel("Chocolate Cake"))
}
