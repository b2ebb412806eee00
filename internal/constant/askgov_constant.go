package constant

const (
	AppTitle = "AskGov SG - CPF Policy Q&A"

	// Answer composition
	AnswerSystemPrompt = "You are a helpful assistant trained in Singapore government processes (CPF, ICA, HDB). Always cite official sources as Markdown URLs."

	AnswerUserPromptTemplate = "User is from: %s\nUser need: %s\nQuestion: %s\n\nOfficial sources:\n%s"

	AnswerTemperature = 0.0
	AnswerMaxTokens   = 500
)

// Query cycle states reported to the page and the JSON API.
const (
	AskStateIdle      = "idle"
	AskStateAnswered  = "answered"
	AskStateNoResults = "no_results"
	AskStateError     = "error"
)

// User-facing messages.
const (
	MsgEmptyQuery        = "Please type your question first."
	MsgNoResults         = "No official results found. Please try a different query."
	MsgSearchFailed      = "Error fetching search results: %v"
	MsgAnswerUnavailable = "The answer service is currently unavailable. Please try again later."
	MsgAnswerReady       = "Here's a simplified explanation:"
	MsgSearching         = "Searching official government sources..."
	MsgPasswordIncorrect = "Password incorrect"
	MsgPasswordRequired  = "Access password required"
	MsgContextUpdated    = "Context updated"
	MsgAuthenticated     = "Access granted"
	MsgQueryProcessed    = "Query processed"
)

// TopicQueryCompleted carries one audit event per finished query cycle.
const TopicQueryCompleted = "askgov.query.completed"
