/*
Package ports defines the driven ports (interfaces) used by the CodmetricBot core and its hosts.

These interfaces keep the dispatcher free of ambient globals: time, randomness and
transcript side effects are injected, so the core stays testable without a UI.

# Key Interfaces

  - Clock: Supplies the reference timestamp for time and date replies.
  - RandomSource: Picks response variants for greeting, status, joke and quote rules.
  - TranscriptSink: Executes the side effects requested by a reply Signal.
  - TranscriptStore: Persists saved transcripts (file, Redis, memory).
*/
package ports
