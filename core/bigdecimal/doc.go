// Package bigdecimal implements exact decimal arithmetic over string encoded
// numbers.
//
// Values are plain decimal literals such as "-118.03" or "0.000169": an
// optional sign, digits, and an optional fractional part. Exponent notation
// is rejected with ErrInvalidNumber.
//
// # Operations
//
//   - Add / Subtract: long addition, negatives handled through the nines'
//     complement of the smaller magnitude. Results are truncated (Down).
//   - Multiply: grade-school multiplication with carry propagation.
//   - Divide: long division by repeated subtraction with a guard digit and a
//     sticky remainder flag.
//   - Round: rounding to a fixed number of fractional digits.
//
// Every result is rendered with exactly the requested number of fractional
// digits, and zero is never signed.
//
// # Rounding modes
//
// Up, Down, Ceiling, Floor, HalfUp, HalfDown and HalfEven follow the usual
// definitions. Unnecessary succeeds only when no non-zero digit is discarded
// and otherwise returns ErrRoundingNecessary.
package bigdecimal
