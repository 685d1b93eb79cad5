package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.dexscreener.com"

// ErrNotFound is the single outcome for every failed resolution or quote.
// Transport errors, non-success statuses, empty pair lists and missing price
// fields all collapse into it: the caller's only possible reaction in each
// case is "retry later or tell the user it failed".
var ErrNotFound = errors.New("pair not found")

// Token is one leg of a trading pair as DexScreener reports it.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Pair is a DexScreener trading pair. PriceUSD is a decimal string on the
// wire; FDV is the fully diluted valuation used as market cap.
type Pair struct {
	PairAddress string  `json:"pairAddress"`
	BaseToken   Token   `json:"baseToken"`
	QuoteToken  Token   `json:"quoteToken"`
	PriceUSD    string  `json:"priceUsd"`
	FDV         float64 `json:"fdv"`
}

type pairsResponse struct {
	Pairs []Pair `json:"pairs"`
}

// ClientConfig configuration of the DexScreener client
type ClientConfig struct {
	BaseURL         string
	ReferenceSymbol string
	Timeout         time.Duration
}

// Client is a stateless DexScreener REST client
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a DexScreener client. The HTTP timeout bounds every call
// so one unresponsive upstream request cannot stall a whole monitor tick.
func NewClient(c ClientConfig) *Client {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.ReferenceSymbol == "" {
		c.ReferenceSymbol = "SOL"
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	return &Client{
		config:     c,
		httpClient: &http.Client{Timeout: c.Timeout},
	}
}

// ResolvePair finds the trading pair for a token address against the
// reference asset. It selects the first pair, in venue order, whose base or
// quote symbol contains the reference symbol (case-sensitive), and returns
// the pair address and the token's display name.
func (c *Client) ResolvePair(ctx context.Context, tokenAddress string) (string, string, error) {
	endpoint := fmt.Sprintf("%s/latest/dex/search?q=%s", c.config.BaseURL, url.QueryEscape(tokenAddress))

	var result pairsResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		log.Debugf("pair search failed for %s: %v", tokenAddress, err)
		return "", "", ErrNotFound
	}

	for _, pair := range result.Pairs {
		if strings.Contains(pair.BaseToken.Symbol, c.config.ReferenceSymbol) ||
			strings.Contains(pair.QuoteToken.Symbol, c.config.ReferenceSymbol) {
			return pair.PairAddress, pair.BaseToken.Name, nil
		}
	}
	return "", "", ErrNotFound
}

// FetchQuote returns the current USD price and market cap for a known pair
// address. The first pair entry in the response is authoritative. A price of
// exactly zero is a valid quote; only a missing or unparsable price field is
// treated as not found.
func (c *Client) FetchQuote(ctx context.Context, pairAddress string) (float64, float64, error) {
	endpoint := fmt.Sprintf("%s/latest/dex/pairs/solana/%s", c.config.BaseURL, pairAddress)

	var result pairsResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		log.Debugf("quote fetch failed for pair %s: %v", pairAddress, err)
		return 0, 0, ErrNotFound
	}

	if len(result.Pairs) == 0 {
		return 0, 0, ErrNotFound
	}

	pair := result.Pairs[0]
	if pair.PriceUSD == "" {
		return 0, 0, ErrNotFound
	}
	price, err := strconv.ParseFloat(pair.PriceUSD, 64)
	if err != nil {
		log.Debugf("unparsable priceUsd %q for pair %s", pair.PriceUSD, pairAddress)
		return 0, 0, ErrNotFound
	}

	return price, pair.FDV, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "could not decode response")
	}
	return nil
}
