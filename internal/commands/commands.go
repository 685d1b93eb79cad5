package commands

import (
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/dexscreener"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/registry"
)

var (
	reg              *registry.Registry
	resolver         *dexscreener.Client
	maxAlertsPerChat int
)

// Setup wires the shared registry and resolver used by every command handler.
// Called once from main before any update is processed.
func Setup(r *registry.Registry, c *dexscreener.Client, maxAlerts int) {
	reg = r
	resolver = c
	maxAlertsPerChat = maxAlerts
}
