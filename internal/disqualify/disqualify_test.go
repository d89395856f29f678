package disqualify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/signal-scout/internal/types"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantPassed   bool
		wantCategory types.DisqualifyCategory
	}{
		{
			name:         "b2b saas platform rejected",
			text:         "Acme launches b2b saas platform for invoice processing",
			wantPassed:   false,
			wantCategory: types.DisqualifyB2B,
		},
		{
			name:         "crypto rejected",
			text:         "New blockchain protocol announces token sale",
			wantPassed:   false,
			wantCategory: types.DisqualifyCrypto,
		},
		{
			name:         "services rejected",
			text:         "Boutique consulting firm expands to Austin",
			wantPassed:   false,
			wantCategory: types.DisqualifyServices,
		},
		{
			name:         "job posting rejected",
			text:         "We're hiring: senior backend engineer, apply now",
			wantPassed:   false,
			wantCategory: types.DisqualifyJob,
		},
		{
			name:       "plain consumer signal passes",
			text:       "Olipop launches new probiotic soda flavors nationwide",
			wantPassed: true,
		},
		{
			name:       "empty text passes",
			text:       "",
			wantPassed: true,
		},
		{
			name:       "term inside longer word does not match",
			text:       "Research on tokenization of paychecks", // "token sale" absent, no bare-substring hit
			wantPassed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.text)
			assert.Equal(t, tt.wantPassed, result.Passed)
			if tt.wantPassed {
				assert.Empty(t, result.Category)
				assert.Empty(t, result.Reason)
			} else {
				assert.Equal(t, tt.wantCategory, result.Category)
				assert.NotEmpty(t, result.Reason)
			}
		})
	}
}

func TestEvaluatePriorityOrder(t *testing.T) {
	// Text hits both the crypto and services sets; b2b→crypto→services→job
	// order means crypto wins.
	result := Evaluate("Crypto consultancy opens trading desk")
	assert.False(t, result.Passed)
	assert.Equal(t, types.DisqualifyCrypto, result.Category)
}

func TestConsumerPositiveSuppression(t *testing.T) {
	// Suppression rule: a consumer-positive term occurring outside the span
	// of the matched disqualifying term cancels the rejection entirely. It
	// only cancels rejection; the signal still has to earn its score from
	// the LLM stage.
	tests := []struct {
		name       string
		text       string
		wantPassed bool
	}{
		{
			name:       "fitness term suppresses incidental saas mention",
			text:       "Fitness app for runners, built on a modern saas stack",
			wantPassed: true,
		},
		{
			name:       "health food startup not burned by saas phrasing",
			text:       "Health food startup raises seed, built on modern saas stack",
			wantPassed: true,
		},
		{
			name:       "beverage brand with enterprise software mention passes",
			text:       "Beverage brand replaces its enterprise software with spreadsheets",
			wantPassed: true,
		},
		{
			name:       "no positive term anywhere stays rejected",
			text:       "Enterprise software vendor ships new crm",
			wantPassed: false,
		},
		{
			name:       "suppression does not force acceptance without a match",
			text:       "Coffee subscription service expands to Canada",
			wantPassed: true, // passes because nothing matched, not because of suppression
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPassed, Evaluate(tt.text).Passed)
		})
	}
}

func TestEvaluateCaseInsensitive(t *testing.T) {
	result := Evaluate("B2B SAAS PLATFORM FOR LOGISTICS")
	assert.False(t, result.Passed)
	assert.Equal(t, types.DisqualifyB2B, result.Category)
}

func TestEvaluateMultibyteWordBoundaries(t *testing.T) {
	// "food" sits inside "caféfood"; the accented letter before it is still
	// part of the word, so it must not suppress the saas rejection.
	result := Evaluate("Caféfood saas platform for suppliers")
	assert.False(t, result.Passed)
	assert.Equal(t, types.DisqualifyB2B, result.Category)

	// A standalone term next to punctuation still matches.
	result = Evaluate("Strictly b2b, nothing else")
	assert.False(t, result.Passed)
	assert.Equal(t, types.DisqualifyB2B, result.Category)
}
