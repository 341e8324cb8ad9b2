package checkers

import (
	"fmt"
	"net/http"
	"strconv"
)

// usageFromHeaders computes a usage percentage from a provider's
// rate-limit response headers. Missing or unparsable headers yield an
// error so the caller reports StatusError instead of a silent zero.
func usageFromHeaders(h http.Header, limitKey, remainingKey string) (pct float64, remaining, limit int64, err error) {
	limitVal := h.Get(limitKey)
	remainingVal := h.Get(remainingKey)

	if limitVal == "" || remainingVal == "" {
		return 0, 0, 0, fmt.Errorf("rate-limit headers %q/%q missing from response", limitKey, remainingKey)
	}

	limit, err = strconv.ParseInt(limitVal, 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse %s header %q: %w", limitKey, limitVal, err)
	}
	remaining, err = strconv.ParseInt(remainingVal, 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse %s header %q: %w", remainingKey, remainingVal, err)
	}

	pct, err = usagePercent(limit, remaining)
	if err != nil {
		return 0, 0, 0, err
	}
	return pct, remaining, limit, nil
}

// usagePercent converts limit/remaining counts into a 0-100 percentage.
func usagePercent(limit, remaining int64) (float64, error) {
	if limit <= 0 {
		return 0, fmt.Errorf("invalid rate limit %d", limit)
	}
	if remaining < 0 || remaining > limit {
		return 0, fmt.Errorf("remaining %d out of range for limit %d", remaining, limit)
	}
	return float64(limit-remaining) / float64(limit) * 100, nil
}
