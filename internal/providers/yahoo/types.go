package yahoo

import (
	"fmt"
	"time"
)

// PriceField names a close column of the chart payload that may serve as
// the canonical price. AdjClose folds splits and dividends into the series
// and is the default; Close is the raw print.
type PriceField string

const (
	PriceAdjClose PriceField = "adjclose"
	PriceClose    PriceField = "close"
)

// ParsePriceField validates a configured field name.
func ParsePriceField(s string) (PriceField, error) {
	switch PriceField(s) {
	case PriceAdjClose, PriceClose:
		return PriceField(s), nil
	default:
		return "", fmt.Errorf("unknown price field %q (want adjclose or close)", s)
	}
}

// Quote is a delayed snapshot of one instrument, derived from its two most
// recent daily bars.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Change    float64   `json:"change"`     // vs previous close
	ChangePct float64   `json:"change_pct"` // percent vs previous close
	Currency  string    `json:"currency"`
	At        time.Time `json:"at"` // time of the latest bar
}

// chartResponse mirrors the v8 finance chart payload. Only the fields the
// client reads are declared; null bars decode to zero and are skipped.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// closeColumn picks the first configured price field present in the result,
// returning the raw column and the field that supplied it.
func (r *chartResponse) closeColumn(prefs []PriceField) ([]float64, PriceField, bool) {
	if len(r.Chart.Result) == 0 {
		return nil, "", false
	}
	ind := r.Chart.Result[0].Indicators
	for _, field := range prefs {
		switch field {
		case PriceAdjClose:
			if len(ind.AdjClose) > 0 && len(ind.AdjClose[0].AdjClose) > 0 {
				return ind.AdjClose[0].AdjClose, PriceAdjClose, true
			}
		case PriceClose:
			if len(ind.Quote) > 0 && len(ind.Quote[0].Close) > 0 {
				return ind.Quote[0].Close, PriceClose, true
			}
		}
	}
	return nil, "", false
}
