package intent

const (
	BotName     = "CodmetricBot"
	CreatorName = "Rohith"
	OrgName     = "Codmetric"
)

// Welcome is the first bot line of every conversation.
const Welcome = "Hello! 👋 Type /help to see what I can do."

// HelpText lists what the bot understands.
const HelpText = "You can try:\n" +
	"• greetings (hi, hello)\n" +
	"• who are you / your name\n" +
	"• who created you\n" +
	"• date / time\n" +
	"• math: 2+3*4, 2^10, 3.5 x 4\n" +
	"• tell me a joke / quote\n" +
	"• clear / save / bye\n"

const (
	clearedText  = "Chat cleared ✅"
	savedText    = "Chat saved ✅"
	identityText = "I’m " + BotName + ", your rule-based assistant."
	creatorText  = "I was created by " + CreatorName + " as part of the " + OrgName + " AI Internship."
	goodbyeText  = "Goodbye! 👋 Have a great day."
	thanksText   = "You're welcome! 🙌"
	weatherText  = "Weather/temperature feature is disabled. Try time, date, math, jokes, or /help."
	brandText    = OrgName + " focuses on practical AI learning and projects. Anything specific you’d like to explore?"
	internText   = "Congrats on the internship! 🎉 If you need help with projects or docs, just tell me what you’re working on."
	fallbackText = "🤔 I didn’t quite get that.\nTry /help, or ask about time, date, a quick math expression, a joke, or who created me."
	timeLayout   = "03:04 PM"
	dateLayout   = "Monday, January 02, 2006"
	timePrefix   = "The current time is ⏰ "
	datePrefix   = "Today is 📅 "
	resultPrefix = "Result = "
)

var greetingReplies = []string{
	"Hello! 👋 How can I assist you today?",
	"Hi there! Ready when you are.",
	"Hey! What can I do for you?",
}

var statusReplies = []string{
	"I’m running at full speed ⚡ How about you?",
	"All systems green ✅ What’s up?",
	"Doing great! Thanks for asking 😊",
}

var jokes = []string{
	"Why do programmers prefer dark mode? Because light attracts bugs!",
	"I told my computer I needed a break, and it said: 'No problem, I’ll go to sleep.'",
	"There are 10 types of people in the world: those who understand binary and those who don’t.",
}

var quotes = []string{
	"“Code is like humor. When you have to explain it, it’s bad.” — Cory House",
	"“First, solve the problem. Then, write the code.” — John Johnson",
	"“Simplicity is the soul of efficiency.” — Austin Freeman",
}
