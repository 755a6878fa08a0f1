package agent

import (
	"context"
	"iter"

	"google.golang.org/genai"

	"github.com/rmarques/searchagent/internal/model"
)

// scriptedModel replays canned response streams, one per Stream call,
// and records the history and tool mode of every invocation.
type scriptedModel struct {
	scripts [][]*genai.GenerateContentResponse
	// streamErr, when set, is raised after the responses of the stream
	// at errOn (zero-based call index).
	streamErr error
	errOn     int

	calls     int
	histories [][]*genai.Content
	modes     []ToolMode
}

func (s *scriptedModel) Stream(_ context.Context, history []*genai.Content, mode ToolMode) iter.Seq2[*genai.GenerateContentResponse, error] {
	call := s.calls
	s.calls++

	snapshot := make([]*genai.Content, len(history))
	copy(snapshot, history)
	s.histories = append(s.histories, snapshot)
	s.modes = append(s.modes, mode)

	var responses []*genai.GenerateContentResponse
	if call < len(s.scripts) {
		responses = s.scripts[call]
	}

	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, resp := range responses {
			if !yield(resp, nil) {
				return
			}
		}
		if s.streamErr != nil && call == s.errOn {
			yield(nil, s.streamErr)
		}
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return responseWithParts(&genai.Part{Text: text})
}

func thoughtResponse(text string) *genai.GenerateContentResponse {
	return responseWithParts(&genai.Part{Text: text, Thought: true})
}

func callResponse(name, argKey, argValue string) *genai.GenerateContentResponse {
	return responseWithParts(&genai.Part{
		FunctionCall: &genai.FunctionCall{
			Name: name,
			Args: map[string]any{argKey: argValue},
		},
	})
}

func responseWithParts(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: parts},
		}},
	}
}

// drain collects a full run, separating events from a terminal error.
func drain(seq iter.Seq2[model.StreamEvent, error]) ([]model.StreamEvent, error) {
	var events []model.StreamEvent
	for event, err := range seq {
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
	return events, nil
}

// searchStub is a deterministic Searcher substitute.
type searchStub struct {
	output  string
	err     error
	queries []string
}

func (s *searchStub) search(_ context.Context, input string) (string, error) {
	s.queries = append(s.queries, input)
	return s.output, s.err
}

func (s *searchStub) declaration(name, inputArg string) *FunctionDeclaration {
	return &FunctionDeclaration{
		Name:        name,
		Description: "stub search",
		InputArg:    inputArg,
		ParametersSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				inputArg: map[string]any{"type": "string"},
			},
			"required": []string{inputArg},
		},
		Call: s.search,
	}
}
