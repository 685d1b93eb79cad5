package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		BaseURL:         server.URL,
		ReferenceSymbol: "SOL",
	})
}

func TestResolvePair_PicksFirstReferencePair(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": [
			{"pairAddress": "p1", "baseToken": {"name": "Meme", "symbol": "MEME"}, "quoteToken": {"name": "USD Coin", "symbol": "USDC"}},
			{"pairAddress": "p2", "baseToken": {"name": "Meme", "symbol": "MEME"}, "quoteToken": {"name": "Wrapped SOL", "symbol": "WSOL"}},
			{"pairAddress": "p3", "baseToken": {"name": "Meme", "symbol": "MEME"}, "quoteToken": {"name": "Solana", "symbol": "SOL"}}
		]}`))
	})

	pairAddress, tokenName, err := client.ResolvePair(context.Background(), "some-token")
	require.NoError(t, err)
	require.Equal(t, "p2", pairAddress)
	require.Equal(t, "Meme", tokenName)
}

func TestResolvePair_SymbolMatchIsCaseSensitive(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": [
			{"pairAddress": "p1", "baseToken": {"name": "Meme", "symbol": "MEME"}, "quoteToken": {"name": "Solana", "symbol": "sol"}}
		]}`))
	})

	_, _, err := client.ResolvePair(context.Background(), "some-token")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePair_NoPairs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": []}`))
	})

	_, _, err := client.ResolvePair(context.Background(), "some-token")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePair_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := client.ResolvePair(context.Background(), "some-token")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFetchQuote_ReturnsPriceAndMarketCap(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": [
			{"pairAddress": "p1", "priceUsd": "3.4", "fdv": 123456.78},
			{"pairAddress": "p1", "priceUsd": "9.9", "fdv": 1}
		]}`))
	})

	price, marketCap, err := client.FetchQuote(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, 3.4, price)
	require.Equal(t, 123456.78, marketCap)
}

func TestFetchQuote_ZeroPriceIsValid(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": [{"pairAddress": "p1", "priceUsd": "0", "fdv": 0}]}`))
	})

	price, _, err := client.FetchQuote(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, 0.0, price)
}

func TestFetchQuote_MissingPriceField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": [{"pairAddress": "p1", "fdv": 42}]}`))
	})

	_, _, err := client.FetchQuote(context.Background(), "p1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFetchQuote_EmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": []}`))
	})

	_, _, err := client.FetchQuote(context.Background(), "p1")
	require.ErrorIs(t, err, ErrNotFound)
}
