// Package history persists translated sentences in a SQLite database so
// that a message translated once is not requested again.
package history
