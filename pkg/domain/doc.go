/*
Package domain contains the core domain models shared by the CodmetricBot packages.

It defines the values that cross package boundaries: the Reply produced for
every message, the Signal a reply may carry for the front-end to execute, the
observability events emitted while a message is dispatched, and the sentinel
errors used to classify failures. This package is kept pure and free of I/O.

# Key Entities

  - Reply: The single response produced for one input, plus an optional Signal.
  - Signal: A side-effect request (clear, persist, terminate) executed by the host.
  - Hooks: Callbacks fired synchronously when a rule matches or math is evaluated.
*/
package domain
