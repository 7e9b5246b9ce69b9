// Package middleware decorates a ports.TranscriptStore: encryption at rest and
// redaction of sensitive text before transcripts leave the process.
package middleware
