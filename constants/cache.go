package constants

import "time"

const (
	CacheKeyProperty       = "property:"
	CacheKeyPropertyList   = "properties:list:"
	CacheKeyPaymentConfirm = "payment:confirm:"
)

const (
	CacheTTLProperty       = 10 * time.Minute
	CacheTTLPaymentConfirm = 24 * time.Hour
)
