package collect

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jonathan/signal-scout/internal/fetch"
	"github.com/jonathan/signal-scout/internal/types"
)

// DefaultUSPTOBaseURL is the trademark search API root.
const DefaultUSPTOBaseURL = "https://tmsearch.uspto.gov/api/v1"

// DefaultUSPTOSearchTerms covers the consumer classes new brands file under.
var DefaultUSPTOSearchTerms = []string{
	"beverage",
	"snack",
	"supplement",
	"skincare",
	"fitness",
}

// USPTO collects recent trademark filings from the USPTO search API.
// The serial number is the source identity; filings show up days before any
// press coverage, so this is the earliest signal source we run.
type USPTO struct {
	BaseURL     string
	SearchTerms []string
	Rows        int
}

// NewUSPTO creates a trademark collector with default search terms.
func NewUSPTO() *USPTO {
	return &USPTO{
		BaseURL:     DefaultUSPTOBaseURL,
		SearchTerms: DefaultUSPTOSearchTerms,
		Rows:        50,
	}
}

// Source identifies this collector's source
func (u *USPTO) Source() types.SourceAPI { return types.SourceUSPTO }

type usptoSearchResponse struct {
	Results []struct {
		SerialNumber       string `json:"serialNumber"`
		MarkIdentification string `json:"markIdentification"`
		OwnerName          string `json:"ownerName"`
		FilingDate         string `json:"filingDate"`
		GoodsAndServices   string `json:"gsDescription"`
	} `json:"results"`
}

// Collect searches recent filings for each configured term.
func (u *USPTO) Collect(ctx context.Context) ([]types.Signal, error) {
	var signals []types.Signal
	now := time.Now().UTC()

	for _, term := range u.SearchTerms {
		searchURL := fmt.Sprintf("%s/trademark/search?query=%s&rows=%d&sort=filingDate+desc",
			u.BaseURL, url.QueryEscape(term), u.Rows)

		var resp usptoSearchResponse
		if err := fetch.JSON(ctx, searchURL, nil, &resp); err != nil {
			return nil, &Error{Source: types.SourceUSPTO, Message: fmt.Sprintf("search %q failed", term), Cause: err}
		}

		for _, filing := range resp.Results {
			if filing.SerialNumber == "" || filing.MarkIdentification == "" {
				continue
			}
			signals = append(signals, types.Signal{
				SourceAPI:   types.SourceUSPTO,
				SourceID:    filing.SerialNumber,
				Title:       filing.MarkIdentification,
				URL:         fmt.Sprintf("https://tsdr.uspto.gov/#caseNumber=%s&caseType=SERIAL_NO&searchType=statusSearch", filing.SerialNumber),
				Description: filing.GoodsAndServices,
				RawMetadata: map[string]string{
					"owner":       filing.OwnerName,
					"filing_date": filing.FilingDate,
					"search_term": term,
				},
				CollectedAt: now,
			})
		}
	}

	return signals, nil
}
