/*
Package codmetricbot is an offline, rule-based chatbot.

Each message is matched against a fixed, ordered table of intents (greetings,
help, time and date, jokes, quotes, arithmetic and so on). The first intent
that matches produces the reply; anything else gets a polite fallback. There is
no model and no network: the same message at the same moment always takes the
same path through the table.

Arithmetic goes through a small evaluator that accepts only numbers,
parentheses and the operators + - * / // % ** (with ^ and x accepted as
aliases), and that never executes arbitrary code.

# Usage

	bot := codmetricbot.New(codmetricbot.WithStore(file.New("logs")))

	out, err := bot.Send(ctx, "2^10")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Reply.Response) // Result = 1024

Commands such as "clear", "save" and "bye" act on the conversation held by the
Bot. For multi-user front-ends see pkg/session, and for the ready-made REPL,
HTTP and MCP servers see cmd/codmetricbot.
*/
package codmetricbot
