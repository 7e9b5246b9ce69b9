// Package transcript records the visible conversation and saves it through a ports.TranscriptStore.
package transcript
