package agent

// System prompts for the LLM calls. These are fixed instructions; anything
// request-dependent (the current timestamp) is interpolated at call time.
const (
	// intentSystemPrompt restricts the classifier to the two literal tokens.
	intentSystemPrompt = `You classify a user's calendar request.
Respond with exactly one word and nothing else:
READ - the user wants to look at, list or check existing events.
WRITE - the user wants to create, book or schedule a new event.`

	// detailsSystemPromptFormat turns free text into a structured event.
	// %s is the current timestamp in RFC 3339 so that relative phrases
	// like "tomorrow at 3" resolve correctly.
	detailsSystemPromptFormat = `Parse the user's request into a JSON object with these fields:
"summary" (string, required), "description" (string, optional),
"startTime" (RFC 3339 timestamp, required), "endTime" (RFC 3339 timestamp, required).
Current date: %s. Default meeting duration is 30 minutes when no end time is given.
Respond only with JSON.`

	// generalSystemPrompt is the persona for commands outside any domain.
	generalSystemPrompt = `You are an elite executive assistant.`
)
