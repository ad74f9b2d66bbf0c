package recipe

import (
	"sort"
	"strings"

	"pantry-chef/internal/infrastructure/config"
)

// FallbackResolver classifies a dish into one of the fixed type buckets
// and maps each bucket to a curated stock photo. The keyword lists and
// photo references come from configuration. Buckets are checked in
// sorted name order so a title matching several of them always
// classifies the same way.
type FallbackResolver struct {
	order        []string
	keywords     map[string][]string
	images       map[string]string
	defaultImage string
}

// dishLabels gives each bucket a human-readable name for the minimal
// tips fallback.
var dishLabels = map[string]string{
	"pasta":    "pasta",
	"salad":    "salad",
	"soup":     "soup",
	"curry":    "curry",
	"stirfry":  "stir-fry",
	"pizza":    "pizza",
	"sandwich": "sandwich",
	"rice":     "rice dish",
	"general":  "dish",
}

// NewFallbackResolver builds a resolver from config, filling empty
// sections with the built-in defaults.
func NewFallbackResolver(cfg config.FallbackConfig) *FallbackResolver {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = config.DefaultFallbackKeywords()
	}
	images := cfg.Images
	if len(images) == 0 {
		images = config.DefaultFallbackImages()
	}
	defaultImage := cfg.DefaultImage
	if defaultImage == "" {
		defaultImage = images["general"]
	}

	order := make([]string, 0, len(keywords))
	for bucket := range keywords {
		order = append(order, bucket)
	}
	sort.Strings(order)

	return &FallbackResolver{
		order:        order,
		keywords:     keywords,
		images:       images,
		defaultImage: defaultImage,
	}
}

// Classify returns the first dish-type bucket, in sorted bucket order,
// whose keywords match the text, or "general".
func (r *FallbackResolver) Classify(text string) string {
	lowered := strings.ToLower(text)
	for _, bucket := range r.order {
		for _, w := range r.keywords[bucket] {
			if strings.Contains(lowered, w) {
				return bucket
			}
		}
	}
	return "general"
}

// ImageFor returns the fallback photo for the dish described by title
// and ingredients. Never empty.
func (r *FallbackResolver) ImageFor(title string, ingredients []string) string {
	text := title + " " + strings.Join(ingredients, " ")
	if img, ok := r.images[r.Classify(text)]; ok && img != "" {
		return img
	}
	return r.defaultImage
}

// DishLabel returns a readable dish-type name for the title, used by
// the minimal tips fallback.
func (r *FallbackResolver) DishLabel(title string) string {
	if label, ok := dishLabels[r.Classify(title)]; ok {
		return label
	}
	return "dish"
}
