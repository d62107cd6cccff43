// Package appmath is the money facade over the bigdecimal engine.
//
// Amounts travel through the application as shopspring decimal.Decimal
// values; every arithmetic step is delegated to bigdecimal so the result is
// digit-exact at the requested precision.
package appmath
