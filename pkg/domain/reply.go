package domain

// Signal is a side-effect request emitted alongside a Reply.
// The dispatcher never performs the effect itself; the host does.
type Signal string

const (
	SignalNone              Signal = ""
	SignalClearTranscript   Signal = "clear_transcript"
	SignalPersistTranscript Signal = "persist_transcript"
	SignalTerminateSession  Signal = "terminate_session"
)

// Reply is the outcome of dispatching one message.
type Reply struct {
	// Response is the text shown to the user. Never empty.
	Response string `json:"response"`

	// Signal is the side effect the host should execute, if any.
	Signal Signal `json:"signal,omitempty"`

	// Rule is the name of the rule that produced the response.
	Rule string `json:"rule"`
}

// HasSignal reports whether the reply requests a side effect.
func (r Reply) HasSignal() bool {
	return r.Signal != SignalNone
}
