// Package processor contains the core business logic for translating
// sentences. It wires the translation service to the formatter, the
// history database and the Anki exporter, and runs single, batch and
// stdin-only modes. This package serves as the main coordinator between
// all other components.
package processor
