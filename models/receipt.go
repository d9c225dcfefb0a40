package models

import "time"

// Receipt is the printable view of a freshly created (or reprinted) order.
type Receipt struct {
	Title               string    `json:"title"`
	ShopName            string    `json:"shop_name"`
	OrderNo             string    `json:"order_no"`
	TrackID             string    `json:"track_id"`
	ClientName          string    `json:"client_name"`
	Contact             string    `json:"contact"`
	PaintColour         string    `json:"paint_colour"`
	Category            Category  `json:"category"`
	ColourCode          string    `json:"colour_code"`
	PaintQuantity       string    `json:"paint_quantity"`
	OrderType           OrderType `json:"order_type"`
	StartTime           time.Time `json:"start_time"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
	SupportPhone        string    `json:"support_phone"`
}
