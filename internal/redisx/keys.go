package redisx

import "time"

const (
	// Single product cache: product:{id} -> product JSON
	KeyProduct = "product:%d"

	// Distinct category list: categories -> JSON array
	KeyCategories = "categories"

	// Order status cache: order_status:{order_id} -> {"status":"..."}
	KeyOrderStatus = "order_status:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLProduct     = 5 * time.Minute
	TTLCategories  = 10 * time.Minute
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
