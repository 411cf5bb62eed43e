package gallery

import "strings"

// DefaultCategory is used when no topic maps onto the taxonomy.
const DefaultCategory = "Applied AI"

var categories = map[string]string{
	"nlp":              "NLP",
	"ml":               "Machine Learning",
	"ai":               "Artificial Intelligence",
	"vision":           "Computer Vision",
	"data-engineering": "Data Engineering",
}

// Classify maps topic tags onto the category taxonomy. The first topic (in
// input order) with a known category wins.
func Classify(topics []string) string {
	for _, topic := range topics {
		if category, ok := categories[strings.ToLower(topic)]; ok {
			return category
		}
	}
	return DefaultCategory
}
