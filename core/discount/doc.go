// Package discount prorates an order-level discount over its lines.
//
// The allocation is deterministic: lines are ordered by external id and the
// last line absorbs the rounding remainder, so the portions always add up to
// the discount to the cent.
package discount
