// Package alignment re-flows word-by-word translations. A reply from the
// translation service carries two rows of bracketed tokens, the source
// sentence and its target translation, aligned position by position. The
// formatter validates that alignment and wraps the token pairs into short
// two-row blocks, each row prefixed with its language marker, so that a
// long sentence stays readable on a narrow screen.
package alignment
