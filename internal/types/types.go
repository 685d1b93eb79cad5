package types

// Alert is one chat's registration to track a token against the reference
// asset. Every field except LastMultiple is fixed at creation time.
type Alert struct {
	AlertID      string  `json:"alert_id"`
	ChatID       int64   `json:"chat_id"`
	TokenName    string  `json:"token_name"`
	TokenAddress string  `json:"token_address"`
	PairAddress  string  `json:"pair_address"`
	BasePrice    float64 `json:"base_price"`
	MarketCap    float64 `json:"market_cap"`
	LastMultiple int     `json:"last_multiple"` // highest multiple already notified, starts at 1
	CreatedAt    string  `json:"created_at"`
}
