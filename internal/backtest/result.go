package backtest

import "time"

// Row is one evaluated bar. Position is the stance decided at this bar's
// close, while StrategyReturn is earned by the stance decided one bar
// earlier, so a decision never profits from its own bar.
type Row struct {
	Time           time.Time `json:"time"`
	Price          float64   `json:"price"`
	Return         float64   `json:"return"`          // log return of the bar
	Position       int       `json:"position"`        // +1 long, -1 short, decided at this close
	StrategyReturn float64   `json:"strategy_return"` // Return times the previous bar's Position
	CumBuyHold     float64   `json:"cum_buyhold"`     // exp of running buy-and-hold log return
	CumStrategy    float64   `json:"cum_strategy"`    // exp of running strategy log return
}

// Result is a complete evaluation of one generator on one instrument.
// Performance and Outperformance are the only rounded figures; everything
// else carries full precision.
type Result struct {
	Symbol   string    `json:"symbol"`
	Strategy string    `json:"strategy"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Bars     int       `json:"bars"` // evaluated rows, after the lag drop
	Rows     []Row     `json:"rows,omitempty"`

	Performance    float64 `json:"performance"`    // final CumStrategy, rounded to 6 decimals
	Outperformance float64 `json:"outperformance"` // Performance minus final CumBuyHold, rounded to 6 decimals

	TotalReturn      float64 `json:"total_return"`      // Performance - 1
	BuyHoldReturn    float64 `json:"buyhold_return"`    // final CumBuyHold - 1
	AnnualVolatility float64 `json:"annual_volatility"` // std of strategy returns, annualized
	Trades           int     `json:"trades"`            // position flips across the run
	LongBars         int     `json:"long_bars"`
	ShortBars        int     `json:"short_bars"`
}
