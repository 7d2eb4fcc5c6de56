package http

import (
	"time"

	xutil "CoinScout/pkg/util"
)

// ParseTimeDefault parses an RFC3339 or unix-seconds timestamp, falling
// back to def when empty or invalid.
func ParseTimeDefault(s string, def time.Time) time.Time { return xutil.ParseTimeDefault(s, def) }
