package agent

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

// ToolMode controls whether a model invocation may request function
// calls.
type ToolMode int

const (
	// ToolModeNone disables function calling; the model must answer
	// in text.
	ToolModeNone ToolMode = iota

	// ToolModeValidated lets the model call the declared functions,
	// restricted to the declared names and shapes.
	ToolModeValidated
)

// ModelStreamer streams model responses for a conversation history.
// The production implementation wraps the Gemini API; tests substitute
// a deterministic stub.
type ModelStreamer interface {
	Stream(ctx context.Context, history []*genai.Content, mode ToolMode) iter.Seq2[*genai.GenerateContentResponse, error]
}
