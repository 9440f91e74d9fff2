package dto

// YahooChartResponse is the wire format of the Yahoo Finance v8 chart API.
type YahooChartResponse struct {
	Chart struct {
		Result []YahooChartResult `json:"result"`
		Error  *YahooAPIError     `json:"error"`
	} `json:"chart"`
}

// YahooChartResult is one symbol's chart payload.
type YahooChartResult struct {
	Meta struct {
		Symbol              string   `json:"symbol"`
		RegularMarketPrice  *float64 `json:"regularMarketPrice"`
		ChartPreviousClose  *float64 `json:"chartPreviousClose"`
		RegularMarketVolume *int64   `json:"regularMarketVolume"`
		FiftyTwoWeekHigh    *float64 `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow     *float64 `json:"fiftyTwoWeekLow"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// YahooQuoteSummaryResponse is the wire format of the v10 quoteSummary API.
type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				TrailingPE YahooRawValue `json:"trailingPE"`
				ForwardPE  YahooRawValue `json:"forwardPE"`
				MarketCap  YahooRawValue `json:"marketCap"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *YahooAPIError `json:"error"`
	} `json:"quoteSummary"`
}

// YahooRawValue is Yahoo's {raw, fmt} number wrapper.
type YahooRawValue struct {
	Raw *float64 `json:"raw"`
}

// YahooAPIError is the error object embedded in Yahoo API responses.
type YahooAPIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
