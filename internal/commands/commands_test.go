package commands

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/machiloop14/memecoin-price-tracker-bot/internal/database"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/dexscreener"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/registry"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/types"

	"github.com/stretchr/testify/require"
)

// fakeVenue serves the two DexScreener endpoints the resolver uses and counts
// how many upstream calls were made.
type fakeVenue struct {
	searchBody string
	quoteBody  string
	hits       int
}

func (v *fakeVenue) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v.hits++
		if strings.HasPrefix(r.URL.Path, "/latest/dex/search") {
			w.Write([]byte(v.searchBody))
			return
		}
		w.Write([]byte(v.quoteBody))
	}
}

func setupCommands(t *testing.T, venue *fakeVenue) *registry.Registry {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { database.CloseDB() })

	server := httptest.NewServer(venue.handler())
	t.Cleanup(server.Close)

	r := registry.New()
	Setup(r, dexscreener.NewClient(dexscreener.ClientConfig{
		BaseURL:         server.URL,
		ReferenceSymbol: "SOL",
	}), 10)
	return r
}

func solVenue(priceUsd string) *fakeVenue {
	return &fakeVenue{
		searchBody: `{"pairs": [{"pairAddress": "pair-1", "baseToken": {"name": "Meme Token", "symbol": "MEME"}, "quoteToken": {"name": "Solana", "symbol": "SOL"}}]}`,
		quoteBody:  fmt.Sprintf(`{"pairs": [{"pairAddress": "pair-1", "priceUsd": %q, "fdv": 1500000}]}`, priceUsd),
	}
}

func TestCommandTrack_CreatesAlert(t *testing.T) {
	reg := setupCommands(t, solVenue("0.0042"))

	reply, err := CommandTrack(42, "token-address")
	require.NoError(t, err)
	require.Contains(t, reply, "Tracking Started")
	require.Equal(t, 1, reg.Len())

	alerts := reg.ListByChat(42)
	require.Len(t, alerts, 1)
	alert := alerts[0]
	require.Contains(t, reply, alert.AlertID)
	require.Len(t, alert.AlertID, 8)
	require.Equal(t, "Meme Token", alert.TokenName)
	require.Equal(t, "token-address", alert.TokenAddress)
	require.Equal(t, "pair-1", alert.PairAddress)
	require.Equal(t, 0.0042, alert.BasePrice)
	require.Equal(t, 1_500_000.0, alert.MarketCap)
	require.Equal(t, 1, alert.LastMultiple)
}

func TestCommandTrack_MissingArgument(t *testing.T) {
	setupCommands(t, solVenue("1"))

	reply, err := CommandTrack(42, "  ")
	require.NoError(t, err)
	require.Contains(t, reply, "Usage")
}

func TestCommandTrack_CapacityCheckedBeforeUpstream(t *testing.T) {
	venue := solVenue("1")
	reg := setupCommands(t, venue)

	for i := 0; i < 10; i++ {
		require.NoError(t, reg.Create(types.Alert{
			AlertID:      fmt.Sprintf("alert%03d", i),
			ChatID:       42,
			TokenName:    "Test",
			TokenAddress: fmt.Sprintf("addr-%d", i),
			PairAddress:  fmt.Sprintf("pair-%d", i),
			BasePrice:    1,
			MarketCap:    1,
			LastMultiple: 1,
			CreatedAt:    "2026-08-31 12:00:00",
		}))
	}

	reply, err := CommandTrack(42, "one-too-many")
	require.NoError(t, err)
	require.Contains(t, reply, "Max 10 tokens")
	require.Equal(t, 10, reg.Len())
	require.Zero(t, venue.hits, "the 11th registration must be rejected before any upstream call")
}

func TestCommandTrack_NoReferencePair(t *testing.T) {
	reg := setupCommands(t, &fakeVenue{
		searchBody: `{"pairs": [{"pairAddress": "pair-1", "baseToken": {"name": "Meme", "symbol": "MEME"}, "quoteToken": {"name": "USD Coin", "symbol": "USDC"}}]}`,
	})

	reply, err := CommandTrack(42, "token-address")
	require.NoError(t, err)
	require.Contains(t, reply, "Could not find")
	require.Equal(t, 0, reg.Len())
}

func TestCommandTrack_ZeroPriceRejected(t *testing.T) {
	reg := setupCommands(t, solVenue("0"))

	reply, err := CommandTrack(42, "token-address")
	require.NoError(t, err)
	require.Contains(t, reply, "Failed to fetch token price")
	require.Equal(t, 0, reg.Len())
}

func TestCommandDelete_OwnAlert(t *testing.T) {
	reg := setupCommands(t, solVenue("1"))
	_, err := CommandTrack(42, "token-address")
	require.NoError(t, err)
	alertID := reg.ListByChat(42)[0].AlertID

	reply := CommandDelete(42, alertID)
	require.Contains(t, reply, "deleted")
	require.Equal(t, 0, reg.Len())
}

func TestCommandDelete_OtherChatsAlertLooksMissing(t *testing.T) {
	reg := setupCommands(t, solVenue("1"))
	_, err := CommandTrack(42, "token-address")
	require.NoError(t, err)
	alertID := reg.ListByChat(42)[0].AlertID

	reply := CommandDelete(99, alertID)
	require.Contains(t, reply, "not found")
	require.Equal(t, 1, reg.Len())
}

func TestCommandDelete_UnknownID(t *testing.T) {
	reg := setupCommands(t, solVenue("1"))

	reply := CommandDelete(42, "zzzz9999")
	require.Contains(t, reply, "not found")
	require.Equal(t, 0, reg.Len())
}

func TestCommandDelete_MissingArgument(t *testing.T) {
	setupCommands(t, solVenue("1"))

	reply := CommandDelete(42, "")
	require.Contains(t, reply, "Usage")
}

func TestCommandList_Empty(t *testing.T) {
	setupCommands(t, solVenue("1"))

	reply := CommandList(42)
	require.Contains(t, reply, "No active alerts")
}

func TestCommandList_ShowsLiveMultiple(t *testing.T) {
	venue := solVenue("2.0")
	reg := setupCommands(t, venue)
	_, err := CommandTrack(42, "token-address")
	require.NoError(t, err)
	alertID := reg.ListByChat(42)[0].AlertID

	// the quote doubles after registration
	venue.quoteBody = `{"pairs": [{"pairAddress": "pair-1", "priceUsd": "4.0", "fdv": 3000000}]}`

	reply := CommandList(42)
	require.Contains(t, reply, alertID)
	require.Contains(t, reply, "Meme Token")
	require.Contains(t, reply, "2\\.00x")
}

func TestCommandList_QuoteFailureFallsBackPerField(t *testing.T) {
	venue := solVenue("1")
	reg := setupCommands(t, venue)
	_, err := CommandTrack(42, "token-address")
	require.NoError(t, err)

	// live quotes go dark; the listing still renders with N/A markers
	venue.quoteBody = `{"pairs": []}`

	reply := CommandList(42)
	require.Contains(t, reply, reg.ListByChat(42)[0].AlertID)
	require.Contains(t, reply, "N/A")
}
