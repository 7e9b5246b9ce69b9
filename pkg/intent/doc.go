/*
Package intent turns a single chat message into a reply.

Messages are lowercased and trimmed, then matched against a fixed, ordered
table of rules. The first rule whose predicate holds produces the reply, and
the table always ends with a catch-all fallback, so every message gets exactly
one answer.

Rules never perform side effects themselves. Commands such as "clear", "save"
and "bye" attach a domain.Signal to the reply; the caller decides how to honor
it, typically through Apply and a ports.TranscriptSink.

	d := intent.New(intent.WithClock(clock))
	reply := d.Handle(ctx, "2^10")
	fmt.Println(reply.Response) // Result = 1024
*/
package intent
