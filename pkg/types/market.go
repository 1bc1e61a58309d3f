package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MarketRecord is the narrow, immutable descriptor the registry caches
// verbatim. It carries exactly the fields downstream components need:
// a stable market id, a human-readable question, and the two outcome
// token identifiers already resolved to their polarity.
type MarketRecord struct {
	ID       string
	Question string
	YesToken string
	NoToken  string

	// Outcomes maps token id to the vendor's raw outcome label, kept only
	// for diagnostics; no component reads it, and dispatch logic never
	// needs to re-derive polarity from it.
	Outcomes map[string]string
}

type rawToken struct {
	TokenID string `json:"token_id"`
	Outcome string `json:"outcome"`
}

type rawMarket struct {
	ID           string          `json:"id"`
	Question     string          `json:"question"`
	Outcomes     json.RawMessage `json:"outcomes"`
	ClobTokenIDs json.RawMessage `json:"clobTokenIds"`
	Tokens       []rawToken      `json:"tokens"`
}

// UnmarshalJSON parses a catalog market record in either vendor encoding:
// the "paired list" format (clobTokenIds + outcomes, each possibly a
// JSON-string-encoded array that needs one extra parse step) or the
// "legacy array" format (a tokens field of {outcome, token_id} objects).
func (m *MarketRecord) UnmarshalJSON(data []byte) error {
	var raw rawMarket
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode market record: %w", err)
	}

	m.ID = raw.ID
	m.Question = raw.Question
	m.Outcomes = make(map[string]string)

	var pairs []rawToken
	if len(raw.Tokens) > 0 {
		pairs = raw.Tokens
	} else {
		outcomes, err := decodeStringArray(raw.Outcomes)
		if err != nil {
			return fmt.Errorf("decode outcomes: %w", err)
		}
		tokenIDs, err := decodeStringArray(raw.ClobTokenIDs)
		if err != nil {
			return fmt.Errorf("decode clobTokenIds: %w", err)
		}
		for i, outcome := range outcomes {
			if i >= len(tokenIDs) {
				break
			}
			pairs = append(pairs, rawToken{TokenID: tokenIDs[i], Outcome: outcome})
		}
	}

	for _, p := range pairs {
		m.Outcomes[p.TokenID] = p.Outcome
		switch {
		case strings.EqualFold(p.Outcome, "yes"):
			m.YesToken = p.TokenID
		case strings.EqualFold(p.Outcome, "no"):
			m.NoToken = p.TokenID
		}
	}

	if m.YesToken == "" || m.NoToken == "" {
		return fmt.Errorf("market %s: missing yes or no token", m.ID)
	}

	return nil
}

// decodeStringArray accepts either a raw JSON array of strings or a
// JSON string containing an encoded array, matching the two shapes the
// Gamma API has been observed to emit for the same logical field.
func decodeStringArray(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var direct []string
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("not an array or encoded array: %w", err)
	}
	if encoded == "" {
		return nil, nil
	}

	var nested []string
	if err := json.Unmarshal([]byte(encoded), &nested); err != nil {
		return nil, fmt.Errorf("decode nested array: %w", err)
	}
	return nested, nil
}
