/*
Package runner implements the interactive chat loop.

It is the bridge between the dispatcher and a terminal or pipe. The runner
reads one message at a time through a pluggable IOHandler, runs it through
session.Exchange, prints the reply and any system notice, and stops when the
reply asks to terminate the session or input ends.

# Key Components

  - Runner: the loop itself.
  - TextHandler: prompts with "You: " and prints "CodmetricBot: ..." lines.
  - JSONHandler: one JSON object per line in both directions.
  - SanitizeInput: size limit, UTF-8 validation and control character stripping.

# Usage

	r := runner.NewRunner(
		runner.WithResponder(intent.New()),
		runner.WithSession(transcript.NewSession(file.New("."), nil)),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
