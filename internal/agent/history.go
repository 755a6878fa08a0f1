package agent

import "google.golang.org/genai"

// RoleFunction marks a turn carrying a function response. The genai SDK
// defines user and model roles; function-result turns use this literal.
const RoleFunction = "function"

// History is an ordered conversation transcript. It is a value type:
// Append returns a new History and never mutates the receiver, so a
// snapshot taken before a transition stays valid for inspection.
type History struct {
	turns []*genai.Content
}

// NewHistory builds a history from the given turns.
func NewHistory(turns ...*genai.Content) History {
	return History{turns: turns}
}

// Append returns a new History with the given turns added at the end.
func (h History) Append(turns ...*genai.Content) History {
	next := make([]*genai.Content, 0, len(h.turns)+len(turns))
	next = append(next, h.turns...)
	next = append(next, turns...)
	return History{turns: next}
}

// Turns returns the ordered turns for a model invocation.
func (h History) Turns() []*genai.Content {
	return h.turns
}

// Len returns the number of turns.
func (h History) Len() int {
	return len(h.turns)
}

// UserTurn builds a user turn containing raw query text.
func UserTurn(text string) *genai.Content {
	return &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: text}},
	}
}

// FunctionResponseTurn builds the synthetic turn that splices a tool
// result back into the conversation.
func FunctionResponseTurn(name, result string) *genai.Content {
	return &genai.Content{
		Role: RoleFunction,
		Parts: []*genai.Part{{
			FunctionResponse: &genai.FunctionResponse{
				Name:     name,
				Response: map[string]any{"result": result},
			},
		}},
	}
}
