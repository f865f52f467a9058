package policies

import "strings"

// MerchantIDMatches reports whether the merchant id stored on an order is still
// covered by the merchant id configured for its country. The check is a
// substring match, not equality; blank ids never match.
func MerchantIDMatches(configuredMerchantID string, orderMerchantID string) bool {
	configured := strings.TrimSpace(configuredMerchantID)
	stored := strings.TrimSpace(orderMerchantID)
	if configured == "" || stored == "" {
		return false
	}

	return strings.Contains(configured, stored)
}
