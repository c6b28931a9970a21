// Package logging implements taxiload.Logger.
//
// ConsoleLogger writes to stderr (or any io.Writer) so that stdout stays free
// for the progress display. NullLogger discards everything and is what tests use.
package logging
