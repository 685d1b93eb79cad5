package monitor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/machiloop14/memecoin-price-tracker-bot/internal/registry"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/types"
	"github.com/machiloop14/memecoin-price-tracker-bot/lib/helpers"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Resolver provides live quotes for tracked pairs.
type Resolver interface {
	FetchQuote(ctx context.Context, pairAddress string) (price float64, marketCap float64, err error)
}

// Notifier delivers crossing notifications to the alert's chat.
type Notifier interface {
	Notify(chatID int64, text string) error
}

// Config configuration of the monitor
type Config struct {
	// Interval between ticks over the whole registry
	Interval time.Duration
	// CatchUp advances last_multiple straight to the current whole multiple
	// instead of one step per tick. Either way at most one notification is
	// sent per alert per tick.
	CatchUp bool
	// Optional counters, left nil in tests
	NotificationsSent prometheus.Counter
	QuoteFetchErrors  prometheus.Counter
}

// Monitor periodically re-quotes every tracked pair and applies the
// multiple-crossing rule.
type Monitor struct {
	registry *registry.Registry
	resolver Resolver
	notifier Notifier
	config   Config
	stop     chan struct{}
}

func New(reg *registry.Registry, resolver Resolver, notifier Notifier, config Config) *Monitor {
	if config.Interval == 0 {
		config.Interval = time.Minute
	}
	return &Monitor{
		registry: reg,
		resolver: resolver,
		notifier: notifier,
		config:   config,
		stop:     make(chan struct{}),
	}
}

// Start runs the monitor loop in the background until Stop is called.
func (m *Monitor) Start() {
	go func() {
		ticker := time.NewTicker(m.config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				m.CheckAlerts()
			}
		}
	}()
	log.Infof("🚀 Alert monitor started (interval %s).", m.config.Interval)
}

func (m *Monitor) Stop() {
	close(m.stop)
}

// CheckAlerts runs one tick: it takes a snapshot of the registry, re-quotes
// every tracked pair and applies the crossing rule. Failures are local to one
// alert; no record's processing blocks another's.
func (m *Monitor) CheckAlerts() {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("🔥 Panic recovered in alert checker: %v", r)
		}
	}()

	log.Debug("🔄 Checking alerts...")

	for _, alert := range m.registry.Snapshot() {
		price, _, err := m.resolver.FetchQuote(context.Background(), alert.PairAddress)
		if err != nil {
			// Transient upstream noise; the alert is retried next tick and
			// the user is never bothered about it.
			log.Debugf("⚠️ Quote unavailable for %s (pair %s), skipping", alert.TokenName, alert.PairAddress)
			if m.config.QuoteFetchErrors != nil {
				m.config.QuoteFetchErrors.Inc()
			}
			continue
		}
		m.evaluate(alert, price)
	}

	log.Debug("✅ Alert check completed.")
}

// evaluate applies the crossing rule to one alert: when the current price has
// reached the next whole multiple of the base price, send exactly one
// notification and advance last_multiple. Notification goes first; a crash
// between the two steps duplicates the notification after a reload instead of
// silently losing the crossing.
func (m *Monitor) evaluate(alert types.Alert, price float64) {
	multiple := price / alert.BasePrice
	next := alert.LastMultiple + 1
	if multiple < float64(next) {
		return
	}

	if m.config.CatchUp {
		next = int(math.Floor(multiple))
	}

	text := fmt.Sprintf(
		"🚀 *%s hit %dx\\!*\n💰 Base: $%s\n💰 Now: $%s",
		helpers.EscapeMarkdownV2(alert.TokenName),
		next,
		helpers.FormatPriceUS(alert.BasePrice, true),
		helpers.FormatPriceUS(price, true),
	)

	if err := m.notifier.Notify(alert.ChatID, text); err != nil {
		log.Errorf("❌ Failed to send %dx notification for alert %s: %v", next, alert.AlertID, err)
	} else {
		log.Infof("✅ %dx notification sent for alert %s (chat %d)", next, alert.AlertID, alert.ChatID)
		if m.config.NotificationsSent != nil {
			m.config.NotificationsSent.Inc()
		}
	}

	m.registry.UpdateMultiple(alert.AlertID, next)
}
