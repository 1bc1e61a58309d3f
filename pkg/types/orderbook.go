package types

import (
	"encoding/json"
	"strconv"
)

// PriceLevel is a single (price, size) pair as emitted by the feed;
// both fields arrive as decimal strings so callers can choose their own
// numeric parsing/rounding without floating-point drift at the wire
// boundary.
type PriceLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// PriceChange is one incremental mutation carried by a "price_change"
// event. Side is "BUY" (bid) or "SELL" (ask) from the maker-side
// perspective the feed uses.
type PriceChange struct {
	Price string `json:"price"`
	Side  string `json:"side"`
	Size  string `json:"size"`
}

// BookEvent is one inbound feed frame. EventType selects which of Bids/
// Asks or Changes is populated; unrecognized EventType values carry
// neither and are ignored by the caller.
type BookEvent struct {
	EventType string        `json:"event_type"`
	AssetID   string        `json:"asset_id"`
	Market    string        `json:"market"`
	Timestamp int64         `json:"-"`
	Bids      []PriceLevel  `json:"bids,omitempty"`
	Asks      []PriceLevel  `json:"asks,omitempty"`
	Changes   []PriceChange `json:"changes,omitempty"`
}

// UnmarshalJSON handles the feed's string-encoded timestamp field.
func (b *BookEvent) UnmarshalJSON(data []byte) error {
	type Alias BookEvent
	aux := &struct {
		TimestampStr string `json:"timestamp"`
		*Alias
	}{
		Alias: (*Alias)(b),
	}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if aux.TimestampStr != "" {
		ts, err := strconv.ParseInt(aux.TimestampStr, 10, 64)
		if err != nil {
			return err
		}
		b.Timestamp = ts
	}

	return nil
}

const (
	EventTypeBook        = "book"
	EventTypePriceChange = "price_change"

	SideBuy  = "BUY"
	SideSell = "SELL"
)
