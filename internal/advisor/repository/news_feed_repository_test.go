package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testUniverse = map[string]string{
	"AAPL": "Apple Inc.",
	"MSFT": "Microsoft Corporation",
	"T":    "AT&T Inc.",
	"GE":   "General Electric Company",
}

func TestExtractTickers_Cashtag(t *testing.T) {
	tickers := ExtractTickers("$AAPL hits a new high", testUniverse)
	assert.Equal(t, []string{"AAPL"}, tickers)
}

func TestExtractTickers_Parenthesized(t *testing.T) {
	tickers := ExtractTickers("Microsoft (MSFT) announces dividend", testUniverse)
	assert.Equal(t, []string{"MSFT"}, tickers)
}

func TestExtractTickers_CompanyName(t *testing.T) {
	tickers := ExtractTickers("Apple unveils its next iPhone", testUniverse)
	assert.Equal(t, []string{"AAPL"}, tickers)
}

func TestExtractTickers_UntrackedSymbolIgnored(t *testing.T) {
	tickers := ExtractTickers("$ZZZZ soars on meme momentum", testUniverse)
	assert.Empty(t, tickers)
}

func TestExtractTickers_MultipleSorted(t *testing.T) {
	tickers := ExtractTickers("Microsoft and Apple report earnings ($MSFT, $AAPL)", testUniverse)
	assert.Equal(t, []string{"AAPL", "MSFT"}, tickers)
}

func TestExtractTickers_NameAndCashtagAgree(t *testing.T) {
	assert.Equal(t, []string{"T"}, ExtractTickers("AT&T cuts prices", testUniverse))
	assert.Equal(t, []string{"T"}, ExtractTickers("$T cuts prices", testUniverse))
}

func TestExtractTickers_NoFalseSubstringFromStopWords(t *testing.T) {
	// "General" is the significant token for GE; "Company" alone must not
	// match.
	assert.Empty(t, ExtractTickers("A company raised guidance", testUniverse))
	assert.Equal(t, []string{"GE"}, ExtractTickers("General Electric wins contract", testUniverse))
}
