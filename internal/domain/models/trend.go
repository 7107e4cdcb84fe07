package models

import "time"

// TrendPoint is one search-interest observation. Interest is nil when the
// source reported no value for that day. Slice order is fetch order.
type TrendPoint struct {
	Query     string
	Date      time.Time
	Interest  *int
	IsPartial bool
}
