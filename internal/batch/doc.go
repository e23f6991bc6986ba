// Package batch reads files of sentences to translate in one run.
package batch
