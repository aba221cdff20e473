// Package pricing holds the money arithmetic shared by carts and orders:
// line aggregation, tax helpers and amount parsing.
//
// The tax helpers (Multiply, AddTax, TaxAmount) are lenient: any input that is
// missing or not numeric counts as zero and the result is zero. Use ParseAmount
// where a malformed amount must be rejected instead.
package pricing
