// Package loader runs one ingestion: it resolves the monthly extract for a
// table name, streams it in batches and writes every batch to a destination.
//
// The pass is strictly linear. The first batch decides when the table is
// (re)created; every later batch is appended in stream order. Nothing is
// retried, and batches written before a failure stay written.
package loader
