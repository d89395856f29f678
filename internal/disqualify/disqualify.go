// Package disqualify implements the zero-cost keyword rejection stage that
// runs before any paid LLM classification.
//
// Each rejection category is a named immutable keyword set; evaluation
// walks the sets in a fixed priority order and the first matching term
// decides the category. A consumer-positive term occurring outside the
// matched term's span cancels the rejection, so incidental B2B phrasing in
// an otherwise consumer signal does not burn it.
package disqualify

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/signal-scout/internal/types"
)

// keywordSet is one rejection category: a label plus its terms.
type keywordSet struct {
	category types.DisqualifyCategory
	terms    []string
}

// rejectionSets in evaluation priority order: b2b → crypto → services → job.
// Terms are lowercase; matching is boundary-aware so "token" does not hit
// "tokenization".
var rejectionSets = []keywordSet{
	{
		category: types.DisqualifyB2B,
		terms: []string{
			"b2b", "saas", "enterprise software", "enterprise platform",
			"api platform", "developer tools", "devops", "crm", "erp",
			"data pipeline", "observability", "infrastructure software",
			"sales enablement", "procurement platform",
		},
	},
	{
		category: types.DisqualifyCrypto,
		terms: []string{
			"crypto", "cryptocurrency", "blockchain", "web3", "nft",
			"defi", "token sale", "stablecoin", "smart contract",
		},
	},
	{
		category: types.DisqualifyServices,
		terms: []string{
			"consulting firm", "consultancy", "agency", "outsourcing",
			"staffing", "recruiting firm", "law firm", "accounting firm",
			"managed services", "system integrator",
		},
	},
	{
		category: types.DisqualifyJob,
		terms: []string{
			"we're hiring", "we are hiring", "now hiring", "job opening",
			"job posting", "apply now", "join our team", "open positions",
			"careers page",
		},
	},
}

// consumerPositiveTerms suppress a keyword rejection when they occur
// outside the matched term. They never force acceptance on their own.
var consumerPositiveTerms = []string{
	"food", "beverage", "drink", "snack", "coffee", "tea", "brewery",
	"restaurant", "grocery", "cpg", "fitness", "wellness", "supplement",
	"nutrition", "skincare", "beauty", "cosmetics", "apparel", "fashion",
	"travel", "hotel", "hospitality", "vacation", "pet", "baby",
	"consumer brand", "direct-to-consumer", "dtc", "d2c",
}

// Evaluate runs the keyword filter over a signal's free text (title plus
// description). It is pure and synchronous; no I/O and no LLM cost.
func Evaluate(text string) types.DisqualifyResult {
	lowered := strings.ToLower(text)

	for _, set := range rejectionSets {
		for _, term := range set.terms {
			start := indexTerm(lowered, term, 0)
			if start < 0 {
				continue
			}
			if positive := suppressingTerm(lowered, start, start+len(term)); positive != "" {
				// Consumer-positive context cancels the whole rejection
				// pass; the signal proceeds to the LLM stage instead.
				return types.DisqualifyResult{Passed: true}
			}
			return types.DisqualifyResult{
				Passed:   false,
				Category: set.category,
				Reason:   fmt.Sprintf("matched %s keyword %q", set.category, term),
			}
		}
	}

	return types.DisqualifyResult{Passed: true}
}

// suppressingTerm returns the first consumer-positive term occurring outside
// the [matchStart, matchEnd) span of the disqualifying term, or "".
func suppressingTerm(lowered string, matchStart, matchEnd int) string {
	for _, positive := range consumerPositiveTerms {
		for from := 0; ; {
			idx := indexTerm(lowered, positive, from)
			if idx < 0 {
				break
			}
			end := idx + len(positive)
			if end <= matchStart || idx >= matchEnd {
				return positive
			}
			from = idx + 1
		}
	}
	return ""
}

// indexTerm finds the first boundary-delimited occurrence of term in text
// at or after from. Returns -1 if there is none.
func indexTerm(text, term string, from int) int {
	for from <= len(text)-len(term) {
		idx := strings.Index(text[from:], term)
		if idx < 0 {
			return -1
		}
		start := from + idx
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return start
		}
		from = start + 1
	}
	return -1
}

func boundaryBefore(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end == len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
