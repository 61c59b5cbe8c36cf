package domain

import (
	"fmt"
	"strconv"
)

// FieldID is the primary key field of every stored document.
const FieldID = "_id"

// Collection names used by the marketplace.
const (
	CollectionCategories = "categories"
	CollectionProducts   = "products"
	CollectionBookings   = "bookings"
	CollectionUsers      = "users"
	CollectionPayments   = "payments"
)

// Document is a schemaless record as stored in a collection.
type Document map[string]any

// String returns the field as a string, or "" when absent.
func (d Document) String(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Bool returns the field as a bool. Only true and "true" count as true.
func (d Document) Bool(key string) bool {
	switch t := d[key].(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	default:
		return false
	}
}

// Float returns the field as a float64 and whether it held a number.
func (d Document) Float(key string) (float64, bool) {
	switch t := d[key].(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Clone returns a shallow copy.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Filter selects documents by field equality.
type Filter map[string]any
