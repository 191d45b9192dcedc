package site

import (
	"errors"
	"strings"
)

var ErrUnknownTimeframe = errors.New("unknown timeframe")

func (m Marketplace) hasTimeframe(tf string) bool {
	for _, t := range m.Timeframes {
		if t == tf {
			return true
		}
	}
	return false
}

// MarketplaceView is the marketplace copy with the selected timeframe.
type MarketplaceView struct {
	Marketplace
	Timeframe string `json:"timeframe"`
}

// MarketplaceFor selects a timeframe, matched case-insensitively. Empty selects the default.
func (c *Content) MarketplaceFor(timeframe string) (MarketplaceView, error) {
	m := c.Marketplace
	timeframe = strings.TrimSpace(timeframe)
	if timeframe == "" {
		return MarketplaceView{Marketplace: m, Timeframe: m.DefaultTimeframe}, nil
	}
	for _, t := range m.Timeframes {
		if strings.EqualFold(t, timeframe) {
			return MarketplaceView{Marketplace: m, Timeframe: t}, nil
		}
	}
	return MarketplaceView{}, ErrUnknownTimeframe
}
