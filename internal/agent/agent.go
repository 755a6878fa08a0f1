// Package agent contains the conversation orchestration: the tool-using
// agent behind the automatic path, the explicit single-tool-call state
// machine behind the manual path, and the conversation history both
// operate on.
package agent

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"google.golang.org/genai"
)

// FunctionDeclaration describes one capability the model may invoke,
// together with its implementation.
type FunctionDeclaration struct {
	Name        string
	Description string
	// InputArg names the string parameter carrying the query.
	InputArg string
	// ParametersSchema is the JSON schema for the call arguments.
	ParametersSchema any
	// Call executes the capability with the model-supplied input.
	Call FunctionCallFn
}

type FunctionCallFn func(ctx context.Context, input string) (string, error)

// Declaration converts to the genai wire representation.
func (fd *FunctionDeclaration) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:                 fd.Name,
		Description:          fd.Description,
		ParametersJsonSchema: fd.ParametersSchema,
	}
}

// ChunkKind tags a chunk produced by the tool agent's internal loop.
type ChunkKind int

const (
	// ChunkText is ordinary model output text.
	ChunkText ChunkKind = iota
	// ChunkThought is reasoning/thinking text.
	ChunkThought
	// ChunkToolCall records a completed tool invocation.
	ChunkToolCall
)

// Chunk is one unit of the tool agent's output stream.
type Chunk struct {
	Kind ChunkKind
	Text string

	// Tool invocation record, set when Kind is ChunkToolCall.
	Tool   string
	Input  string
	Output string
}

// ToolAgent loops between model invocations and tool executions until
// the model stops requesting calls or the loop budget is exhausted,
// streaming typed chunks as they are produced.
type ToolAgent struct {
	model     ModelStreamer
	functions map[string]*FunctionDeclaration
	maxCalls  int
	logger    *slog.Logger
}

// DefaultMaxToolCalls bounds the model-tool loop so a misbehaving model
// cannot cycle forever.
const DefaultMaxToolCalls = 3

// NewToolAgent builds an agent over the given model. Register
// capabilities with AddFunction before running.
func NewToolAgent(model ModelStreamer, logger *slog.Logger) *ToolAgent {
	return &ToolAgent{
		model:     model,
		functions: make(map[string]*FunctionDeclaration),
		maxCalls:  DefaultMaxToolCalls,
		logger:    logger,
	}
}

// AddFunction registers a capability the model may call.
func (a *ToolAgent) AddFunction(fd *FunctionDeclaration) error {
	if fd == nil {
		return fmt.Errorf("function declaration cannot be nil")
	}
	if fd.Name == "" {
		return fmt.Errorf("function name cannot be empty")
	}
	if fd.Call == nil {
		return fmt.Errorf("function call implementation cannot be nil")
	}
	a.functions[fd.Name] = fd
	return nil
}

// Stream runs the agent for a single query. The returned sequence is
// one-shot: it yields chunks in production order and stops on the first
// error.
func (a *ToolAgent) Stream(ctx context.Context, query string) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		history := NewHistory(UserTurn(query))

		for calls := 0; ; calls++ {
			mode := ToolModeValidated
			if calls >= a.maxCalls {
				// Budget exhausted, force a text answer.
				mode = ToolModeNone
			}

			var pending *genai.FunctionCall
			var modelTurn *genai.Content

			for resp, err := range a.model.Stream(ctx, history.Turns(), mode) {
				if err != nil {
					yield(Chunk{}, &ModelStreamError{Err: err})
					return
				}

				content := firstContent(resp)
				if content == nil {
					continue
				}

				for _, part := range content.Parts {
					if part.FunctionCall != nil {
						pending = part.FunctionCall
						modelTurn = content
						continue
					}
					if part.Text == "" {
						continue
					}
					kind := ChunkText
					if part.Thought {
						kind = ChunkThought
					}
					if !yield(Chunk{Kind: kind, Text: part.Text}, nil) {
						return
					}
				}
			}

			if pending == nil || mode == ToolModeNone {
				return
			}

			fd, ok := a.functions[pending.Name]
			if !ok {
				yield(Chunk{}, &ProtocolViolationError{Requested: pending.Name, Allowed: a.allowedNames()})
				return
			}

			input, _ := pending.Args[fd.InputArg].(string)
			a.logger.Info("executing function call", "function", fd.Name, "input", input)
			output, err := fd.Call(ctx, input)
			if err != nil {
				yield(Chunk{}, fmt.Errorf("agent: tool %s: %w", fd.Name, err))
				return
			}

			if !yield(Chunk{Kind: ChunkToolCall, Tool: fd.Name, Input: input, Output: output}, nil) {
				return
			}

			history = history.Append(modelTurn, FunctionResponseTurn(fd.Name, output))
		}
	}
}

func (a *ToolAgent) allowedNames() string {
	names := ""
	for name := range a.functions {
		if names != "" {
			names += ", "
		}
		names += name
	}
	return names
}

// AllowedFunctions returns the declarations the model may call.
func (a *ToolAgent) AllowedFunctions() []*FunctionDeclaration {
	fds := make([]*FunctionDeclaration, 0, len(a.functions))
	for _, fd := range a.functions {
		fds = append(fds, fd)
	}
	return fds
}

// firstContent extracts the first candidate's content from a streaming
// fragment, or nil when the fragment carries none.
func firstContent(resp *genai.GenerateContentResponse) *genai.Content {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	candidate := resp.Candidates[0]
	if candidate == nil {
		return nil
	}
	return candidate.Content
}
