package valueobjects

import (
	"fmt"
	"strings"

	apperrors "klarnasync/internal/shared_kernel/errors"
)

type ServerMode string

const (
	ServerModePlayground ServerMode = "playground"
	ServerModeLive       ServerMode = "live"
)

const (
	klarnaPortalPlaygroundURL = "https://playground.eu.portal.klarna.com/orders/merchants/%s/orders/%s"
	klarnaPortalLiveURL       = "https://eu.portal.klarna.com/orders/merchants/%s/orders/%s"
)

func ParseServerMode(raw string) (ServerMode, *apperrors.AppError) {
	switch ServerMode(strings.ToLower(strings.TrimSpace(raw))) {
	case ServerModePlayground:
		return ServerModePlayground, nil
	case ServerModeLive:
		return ServerModeLive, nil
	default:
		return "", apperrors.NewValidation(
			"server_mode_invalid",
			"server mode must be playground or live",
			map[string]any{"server_mode": raw},
		)
	}
}

func (m ServerMode) IsPlayground() bool {
	return m == ServerModePlayground
}

func (m ServerMode) String() string {
	return string(m)
}

// KlarnaPortalLink returns the merchant portal page of a Klarna order. Every
// mode other than playground links to the live portal.
func KlarnaPortalLink(mode ServerMode, merchantID string, klarnaOrderID string) string {
	format := klarnaPortalLiveURL
	if mode.IsPlayground() {
		format = klarnaPortalPlaygroundURL
	}

	return fmt.Sprintf(format, merchantID, klarnaOrderID)
}
