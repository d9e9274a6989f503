package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field names a piece of metadata extracted from a post element.
type Field string

// Extracted fields.
const (
	FieldLikes       Field = "likes"
	FieldComments    Field = "comments"
	FieldPublishTime Field = "publishTime"
	FieldTitle       Field = "title"
	FieldCoverImage  Field = "coverImage"
	FieldSummary     Field = "summary"
)

// Strategy looks for a field inside scope and reports whether it matched.
// A strategy never matches an empty value.
type Strategy func(scope *goquery.Selection) (string, bool)

// FieldRule describes how one field is located.
type FieldRule struct {
	Strategies []Strategy

	// WidenToCard retries the strategies on the nearest card container
	// when none match inside the element.
	WidenToCard bool
}

// FieldTable maps every field to its lookup rule.
var FieldTable = map[Field]FieldRule{
	FieldLikes:       {Strategies: textStrategies(LikeSelectors), WidenToCard: true},
	FieldComments:    {Strategies: textStrategies(CommentSelectors), WidenToCard: true},
	FieldPublishTime: {Strategies: textStrategies(PublishTimeSelectors)},
	FieldTitle:       {Strategies: textStrategies(TitleSelectors), WidenToCard: true},
	FieldCoverImage:  {Strategies: attrStrategies(CoverImageSelectors, "src")},
	FieldSummary:     {Strategies: textStrategies(SummarySelectors)},
}

// TextOf returns a strategy matching the trimmed text of the first
// element selected by selector.
func TextOf(selector string) Strategy {
	return func(scope *goquery.Selection) (string, bool) {
		text := strings.TrimSpace(scope.Find(selector).First().Text())
		return text, text != ""
	}
}

// AttrOf returns a strategy matching attribute attr of the first element
// selected by selector.
func AttrOf(selector, attr string) Strategy {
	return func(scope *goquery.Selection) (string, bool) {
		value, _ := scope.Find(selector).First().Attr(attr)
		value = strings.TrimSpace(value)
		return value, value != ""
	}
}

func textStrategies(selectors []string) []Strategy {
	strategies := make([]Strategy, len(selectors))
	for i, s := range selectors {
		strategies[i] = TextOf(s)
	}
	return strategies
}

func attrStrategies(selectors []string, attr string) []Strategy {
	strategies := make([]Strategy, len(selectors))
	for i, s := range selectors {
		strategies[i] = AttrOf(s, attr)
	}
	return strategies
}

// Lookup resolves field for element using FieldTable. It returns the empty
// string when no strategy matches in any allowed scope.
func Lookup(element *goquery.Selection, field Field) string {
	rule, ok := FieldTable[field]
	if !ok {
		return ""
	}
	if v, ok := firstMatch(element, rule.Strategies); ok {
		return v
	}
	if !rule.WidenToCard {
		return ""
	}
	card := element.Closest(CardSelector)
	if card.Length() == 0 {
		return ""
	}
	v, _ := firstMatch(card, rule.Strategies)
	return v
}

func firstMatch(scope *goquery.Selection, strategies []Strategy) (string, bool) {
	for _, strategy := range strategies {
		if v, ok := strategy(scope); ok {
			return v, true
		}
	}
	return "", false
}
