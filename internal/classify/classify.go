// Package classify implements the deterministic sentiment classification and
// engagement scoring applied to collected videos. Both are pure functions of
// their inputs and an injected Rules value; nothing here touches I/O.
package classify

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/tubepulse/tubepulse-cli/internal/model"
)

// Rules holds the keyword lists and category sets driving classification.
// Treat a Rules value as immutable once constructed; it is shared across
// goroutines without locking.
type Rules struct {
	PositiveKeywords   []string `yaml:"positive_keywords" mapstructure:"positive_keywords"`
	NegativeKeywords   []string `yaml:"negative_keywords" mapstructure:"negative_keywords"`
	PositiveCategories []int    `yaml:"positive_categories" mapstructure:"positive_categories"`
	NegativeCategories []int    `yaml:"negative_categories" mapstructure:"negative_categories"`
	MixedCategories    []int    `yaml:"mixed_categories" mapstructure:"mixed_categories"`
}

// DefaultRules returns the built-in rule set: category 28 (Science & Tech)
// positive, 25 (News & Politics) negative, 22/23/24 (People & Blogs, Comedy,
// Entertainment) keyword-decided.
func DefaultRules() Rules {
	return Rules{
		PositiveKeywords:   []string{"amazing", "great", "excellent", "best", "awesome"},
		NegativeKeywords:   []string{"terrible", "worst", "bad", "awful", "horrible"},
		PositiveCategories: []int{28},
		NegativeCategories: []int{25},
		MixedCategories:    []int{22, 23, 24},
	}
}

// LoadRules reads a rule set from a YAML file. Missing lists fall back to
// the defaults so a partial override file stays valid.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, eris.Wrapf(err, "classify: read rules %s", path)
	}

	rules := DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, eris.Wrapf(err, "classify: parse rules %s", path)
	}
	return rules, nil
}

// Result is the classification outcome for a single video.
type Result struct {
	Sentiment    model.Sentiment
	Method       model.Method
	PositiveHits int
	NegativeHits int
}

// Classify labels a video from its category code and text metadata.
//
// Keyword hits are counted as substring membership in the lowercased
// concatenation of title, description, and tags; each keyword contributes at
// most one hit. Category precedence is positive, then negative, then mixed —
// the sets are disjoint by configuration contract and the first match wins.
// Mixed categories are decided by keyword counts, with ties (including 0/0)
// NEUTRAL. A category in none of the sets yields UNKNOWN / UNCATEGORIZED.
func (r Rules) Classify(categoryID int, title, description string, tags []string) Result {
	combined := strings.ToLower(title + " " + description + " " + strings.Join(tags, " "))

	res := Result{
		PositiveHits: countHits(combined, r.PositiveKeywords),
		NegativeHits: countHits(combined, r.NegativeKeywords),
	}

	switch {
	case containsInt(r.PositiveCategories, categoryID):
		res.Sentiment = model.SentimentPositive
		res.Method = model.MethodCategoryBased
	case containsInt(r.NegativeCategories, categoryID):
		res.Sentiment = model.SentimentNegative
		res.Method = model.MethodCategoryBased
	case containsInt(r.MixedCategories, categoryID):
		res.Method = model.MethodKeywordBased
		switch {
		case res.PositiveHits > res.NegativeHits:
			res.Sentiment = model.SentimentPositive
		case res.NegativeHits > res.PositiveHits:
			res.Sentiment = model.SentimentNegative
		default:
			res.Sentiment = model.SentimentNeutral
		}
	default:
		res.Sentiment = model.SentimentUnknown
		res.Method = model.MethodUncategorized
	}

	return res
}

func countHits(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
