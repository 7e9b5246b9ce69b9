package intent

import (
	"strings"

	"github.com/codmetric/codmetricbot/pkg/domain"
)

// Rule pairs a predicate with the producer of its response.
// Predicates read only the normalized input and have no side effects.
type Rule struct {
	Name    string
	Signal  domain.Signal
	Match   func(t *Turn) bool
	Produce func(t *Turn) string
}

// Order is priority: the first rule whose predicate matches wins.
var rules = []Rule{
	{
		Name:    "help",
		Match:   equalsAny("/help", "help", "commands"),
		Produce: fixed(HelpText),
	},
	{
		Name:    "clear",
		Signal:  domain.SignalClearTranscript,
		Match:   equalsAny("clear", "/clear"),
		Produce: fixed(clearedText),
	},
	{
		Name:    "save",
		Signal:  domain.SignalPersistTranscript,
		Match:   equalsAny("save", "/save"),
		Produce: fixed(savedText),
	},
	{
		Name:    "greeting",
		Match:   containsAny("hi", "hello", "hey", "hola", "hai"),
		Produce: pick(greetingReplies),
	},
	{
		Name:    "status",
		Match:   containsAny("how are you"),
		Produce: pick(statusReplies),
	},
	{
		Name:    "identity",
		Match:   containsAny("your name", "who are you", "what is your name", "what's your name"),
		Produce: fixed(identityText),
	},
	{
		Name:    "creator",
		Match:   containsAny("who created you", "who made you", "creator"),
		Produce: fixed(creatorText),
	},
	{
		Name:    "farewell",
		Signal:  domain.SignalTerminateSession,
		Match:   containsAny("bye", "goodbye", "see you", "see ya", "cya", "quit", "exit"),
		Produce: fixed(goodbyeText),
	},
	{
		Name:    "thanks",
		Match:   containsAny("thanks", "thank you", "ty", "thx"),
		Produce: fixed(thanksText),
	},
	{
		Name:  "time",
		Match: containsAny("time"),
		Produce: func(t *Turn) string {
			return timePrefix + t.Now.Format(timeLayout)
		},
	},
	{
		Name:  "date",
		Match: containsAny("date", "day"),
		Produce: func(t *Turn) string {
			return datePrefix + t.Now.Format(dateLayout)
		},
	},
	{
		// Weather lookups were removed on purpose and stay removed.
		Name:    "weather",
		Match:   containsAny("weather", "temperature"),
		Produce: fixed(weatherText),
	},
	{
		Name:    "joke",
		Match:   containsAny("joke"),
		Produce: pick(jokes),
	},
	{
		Name:    "quote",
		Match:   containsAny("quote", "motivate", "motivation"),
		Produce: pick(quotes),
	},
	{
		Name: "math",
		Match: func(t *Turn) bool {
			_, err := t.Math()
			return err == nil
		},
		Produce: func(t *Turn) string {
			v, _ := t.Math()
			return resultPrefix + v.String()
		},
	},
	{
		Name:    "brand",
		Match:   containsAny("codmetric"),
		Produce: fixed(brandText),
	},
	{
		Name:    "internship",
		Match:   containsAny("intern", "internship", "offer letter"),
		Produce: fixed(internText),
	},
	{
		Name:    "fallback",
		Match:   func(*Turn) bool { return true },
		Produce: fixed(fallbackText),
	},
}

func equalsAny(words ...string) func(*Turn) bool {
	return func(t *Turn) bool {
		for _, w := range words {
			if t.Text == w {
				return true
			}
		}
		return false
	}
}

func containsAny(words ...string) func(*Turn) bool {
	return func(t *Turn) bool {
		for _, w := range words {
			if strings.Contains(t.Text, w) {
				return true
			}
		}
		return false
	}
}

func fixed(s string) func(*Turn) string {
	return func(*Turn) string { return s }
}

func pick(options []string) func(*Turn) string {
	return func(t *Turn) string {
		return options[t.rng.IntN(len(options))]
	}
}
