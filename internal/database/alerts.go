package database

import (
	"fmt"
	"log"

	"github.com/machiloop14/memecoin-price-tracker-bot/internal/types"
)

// InsertAlert saves a whole alert record to the database
func InsertAlert(alert types.Alert) error {
	query := `
	INSERT INTO alerts (alert_id, chat_id, token_name, token_address, pair_address, base_price, market_cap, last_multiple, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	_, err := DB.Exec(query, alert.AlertID, alert.ChatID, alert.TokenName, alert.TokenAddress,
		alert.PairAddress, alert.BasePrice, alert.MarketCap, alert.LastMultiple, alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	log.Printf("Alert inserted successfully: AlertID: %s, ChatID: %d, Token: %s, BasePrice: %f",
		alert.AlertID, alert.ChatID, alert.TokenName, alert.BasePrice)
	return nil
}

// UpdateLastMultiple persists only the last_multiple field of one alert
func UpdateLastMultiple(alertID string, lastMultiple int) error {
	query := `UPDATE alerts SET last_multiple = ? WHERE alert_id = ?;`
	_, err := DB.Exec(query, lastMultiple, alertID)
	if err != nil {
		return fmt.Errorf("failed to update last_multiple for alert %s: %w", alertID, err)
	}
	return nil
}

// DeleteAlert removes an alert from the database
func DeleteAlert(alertID string) error {
	query := `DELETE FROM alerts WHERE alert_id = ?;`
	_, err := DB.Exec(query, alertID)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	return nil
}

// GetAllAlerts fetches all alerts from the database
func GetAllAlerts() ([]types.Alert, error) {
	query := `SELECT alert_id, chat_id, token_name, token_address, pair_address, base_price, market_cap, last_multiple, created_at FROM alerts;`

	rows, err := DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []types.Alert
	for rows.Next() {
		var alert types.Alert
		if err := rows.Scan(&alert.AlertID, &alert.ChatID, &alert.TokenName, &alert.TokenAddress,
			&alert.PairAddress, &alert.BasePrice, &alert.MarketCap, &alert.LastMultiple, &alert.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		alerts = append(alerts, alert)
	}

	return alerts, nil
}

// GetAlertsByChatID fetches all alerts for a specific chat ID
func GetAlertsByChatID(chatID int64) ([]types.Alert, error) {
	query := `SELECT alert_id, chat_id, token_name, token_address, pair_address, base_price, market_cap, last_multiple, created_at FROM alerts WHERE chat_id = ?;`

	rows, err := DB.Query(query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts for chat ID %d: %w", chatID, err)
	}
	defer rows.Close()

	var alerts []types.Alert
	for rows.Next() {
		var alert types.Alert
		if err := rows.Scan(&alert.AlertID, &alert.ChatID, &alert.TokenName, &alert.TokenAddress,
			&alert.PairAddress, &alert.BasePrice, &alert.MarketCap, &alert.LastMultiple, &alert.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		alerts = append(alerts, alert)
	}

	return alerts, nil
}
