package agent

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/rmarques/searchagent/internal/model"
	"google.golang.org/genai"
)

// PlaceholderReasoning is emitted once per fragment when the model
// supplies no explicit thought text; the client always expects a
// reasoning heartbeat.
const PlaceholderReasoning = "Thinking about relevant factors..."

// Manual is the hand-controlled orchestration path: one model call with
// function calling enabled for exactly one declared capability, at most
// one tool execution, an explicit history splice, and one follow-up
// call with function calling disabled. Every transition is handled
// here, in exchange for full control over when and how the tool fires.
type Manual struct {
	model       ModelStreamer
	tool        *FunctionDeclaration
	callTimeout time.Duration
	logger      *slog.Logger
}

// NewManual builds the manual path around a single declared capability.
// callTimeout bounds each external call; zero disables the bound.
func NewManual(streamer ModelStreamer, tool *FunctionDeclaration, callTimeout time.Duration, logger *slog.Logger) *Manual {
	return &Manual{
		model:       streamer,
		tool:        tool,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// Run executes the state machine for one query.
//
// The first model call may request the declared function. Each fragment
// of that stream produces a reasoning event (placeholder text when the
// model offers none). The first function-call request triggers tool
// execution, a tool_call event, the history splice and a follow-up
// model call with tools disabled, whose text fragments become response
// events. A first stream with no function call finishes the turn with
// no tool execution and no follow-up.
func (o *Manual) Run(ctx context.Context, query string) iter.Seq2[model.StreamEvent, error] {
	return func(yield func(model.StreamEvent, error) bool) {
		history := NewHistory(UserTurn(query))

		callCtx, cancel := o.boundedContext(ctx)
		defer cancel()

		for resp, err := range o.model.Stream(callCtx, history.Turns(), ToolModeValidated) {
			if err != nil {
				yield(model.StreamEvent{}, &ModelStreamError{Err: err})
				return
			}

			content := firstContent(resp)
			if content == nil || len(content.Parts) == 0 {
				continue
			}

			if !yield(model.Reasoning(thoughtText(content)), nil) {
				return
			}

			fc := functionCall(content)
			if fc == nil {
				continue
			}

			if fc.Name != o.tool.Name {
				violation := &ProtocolViolationError{Requested: fc.Name, Allowed: o.tool.Name}
				o.logger.Warn("rejecting undeclared function call", "function", fc.Name)
				yield(model.Error(violation.Error()), nil)
				return
			}

			input, _ := fc.Args[o.tool.InputArg].(string)
			output, err := o.executeTool(ctx, input)
			if err != nil {
				// Recoverable: the client learns about the failure and
				// the stream still terminates cleanly.
				o.logger.Error("tool execution failed", "tool", o.tool.Name, "error", err)
				yield(model.Error(err.Error()), nil)
				return
			}

			if !yield(model.ToolCall(o.tool.Name, input, output), nil) {
				return
			}

			// Splice the call and its result into the conversation: the
			// model turn carrying the request, then the synthetic
			// function-response turn.
			history = history.Append(content, FunctionResponseTurn(o.tool.Name, output))

			o.streamFollowUp(ctx, history, yield)
			return
		}
	}
}

// streamFollowUp re-invokes the model with tools disabled and forwards
// its text fragments as response events. Recursion is capped here: the
// model cannot call again.
func (o *Manual) streamFollowUp(ctx context.Context, history History, yield func(model.StreamEvent, error) bool) {
	callCtx, cancel := o.boundedContext(ctx)
	defer cancel()

	for resp, err := range o.model.Stream(callCtx, history.Turns(), ToolModeNone) {
		if err != nil {
			yield(model.StreamEvent{}, &ModelStreamError{Err: err})
			return
		}

		content := firstContent(resp)
		if content == nil {
			continue
		}
		for _, part := range content.Parts {
			if part.Text == "" || part.Thought {
				continue
			}
			if !yield(model.Response(part.Text), nil) {
				return
			}
		}
	}
}

func (o *Manual) executeTool(ctx context.Context, input string) (string, error) {
	callCtx, cancel := o.boundedContext(ctx)
	defer cancel()
	return o.tool.Call(callCtx, input)
}

func (o *Manual) boundedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.callTimeout)
}

// thoughtText returns the fragment's explicit reasoning text, or the
// placeholder when the model provides none.
func thoughtText(content *genai.Content) string {
	for _, part := range content.Parts {
		if part.Thought && part.Text != "" {
			return part.Text
		}
	}
	return PlaceholderReasoning
}

// functionCall returns the fragment's function-call request, if any.
func functionCall(content *genai.Content) *genai.FunctionCall {
	for _, part := range content.Parts {
		if part.FunctionCall != nil {
			return part.FunctionCall
		}
	}
	return nil
}
