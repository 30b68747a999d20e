package service

import (
	"regexp"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
)

var (
	tabletPattern = regexp.MustCompile(`(?i)iPad|Tablet|Kindle|PlayBook|Nexus`)
	mobilePattern = regexp.MustCompile(`(?i)Mobile|Android|iP(hone|od|ad)|BlackBerry|IEMobile|Opera Mini`)
)

// ClassifyUserAgent maps a user-agent to Tablet, Mobile or Desktop. Tablet is
// checked first because most tablet agents also match the mobile pattern.
func ClassifyUserAgent(userAgent string) string {
	switch {
	case tabletPattern.MatchString(userAgent):
		return domain.DeviceTablet
	case mobilePattern.MatchString(userAgent):
		return domain.DeviceMobile
	default:
		return domain.DeviceDesktop
	}
}
