// Package schema declares the column layout of the yellow taxi trip extracts
// and the coercion of raw CSV cells into typed values.
//
// A Schema is an ordered list of columns, each with a semantic Type. Rows
// produced by Coerce are aligned with that order, and nil stands for SQL NULL.
// The same Schema drives table creation, so the destination's column set is
// exactly the declared one.
package schema
