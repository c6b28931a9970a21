// Package source locates and decodes the monthly trip extracts.
//
// Naming derives the year and month from a destination table name and builds
// the download URL from it. Open fetches the file over HTTP (or from disk),
// transparently gunzipping it, and BatchReader turns the CSV stream into
// fixed-size batches of typed rows.
package source
