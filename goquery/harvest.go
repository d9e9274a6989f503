// Package goquery implements post harvesting, classification and field
// extraction over rendered profile HTML using goquery.
package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/creatorscan"
	"golang.org/x/net/html"
)

// DefaultBaseURL resolves relative post links when the page URL is unknown.
const DefaultBaseURL = "https://www.douyin.com"

var _ creatorscan.Harvester = (*Harvester)(nil)

// Harvester finds post anchors across every known layout variant.
type Harvester struct {
	// Selectors are queried in order. Defaults to HarvestSelectors.
	Selectors []string
}

// NewHarvester creates a Harvester using HarvestSelectors.
func NewHarvester() *Harvester {
	return &Harvester{Selectors: HarvestSelectors}
}

// Harvest parses html and returns the unique anchors matched by any selector.
// The same node matched by several selectors is returned once, at the
// position of its first match. Zero matches is not an error.
func (h *Harvester) Harvest(rawHTML string, pageURL string) (*creatorscan.Harvest, error) {
	if pageURL == "" {
		pageURL = DefaultBaseURL
	}
	base, err := parseBase(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, creatorscan.Errorf(creatorscan.EINVALID, "failed to parse HTML: %v", err)
	}

	selectors := h.Selectors
	if selectors == nil {
		selectors = HarvestSelectors
	}

	seen := make(map[*html.Node]bool)
	var elements []creatorscan.Element
	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			node := sel.Get(0)
			if seen[node] {
				return
			}
			seen[node] = true
			elements = append(elements, &Element{sel: sel, base: base})
		})
	}

	return &creatorscan.Harvest{
		Elements:      elements,
		ExpectedCount: ExpectedCount(doc),
		Pinned:        doc.Find(PinnedSelector).Length(),
	}, nil
}

var firstNumber = regexp.MustCompile(`\d+`)

// ExpectedCount reads the number of works advertised on the profile tab.
// Returns 0 when the tab is absent.
func ExpectedCount(doc *goquery.Document) int {
	text := strings.TrimSpace(doc.Find(WorkCountSelector).First().Text())
	match := firstNumber.FindString(text)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}
