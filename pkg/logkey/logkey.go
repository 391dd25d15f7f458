// Package logkey centralizes the attribute names used in structured logs so
// log queries don't break when a handler is refactored.
package logkey

const (
	TraceID = "TRACE ID"
	ERROR   = "ERROR"

	OrderID = "OrderID"
	ItemID  = "ItemID"
	UserID  = "UserID"
)
