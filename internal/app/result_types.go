package app

import "textile-assistant/internal/core"

// AddOrderResult reports a successful insert.
type AddOrderResult struct {
	OrderID int        `json:"order_id"`
	Order   core.Order `json:"order"`
}
