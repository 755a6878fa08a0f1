package agent

import (
	"context"
	"iter"
	"log/slog"

	"github.com/rmarques/searchagent/internal/model"
)

// Orchestrator drives one conversation turn and lazily produces the
// events streamed to the client. The sequence is one-shot per request.
type Orchestrator interface {
	Run(ctx context.Context, query string) iter.Seq2[model.StreamEvent, error]
}

// Automatic delegates the whole turn to the tool agent's internal loop
// and re-tags its chunks into the public event vocabulary.
type Automatic struct {
	agent  *ToolAgent
	logger *slog.Logger
}

// NewAutomatic builds the framework-managed orchestration path.
func NewAutomatic(agent *ToolAgent, logger *slog.Logger) *Automatic {
	return &Automatic{agent: agent, logger: logger}
}

// Run re-tags each agent chunk: tool invocations become tool_call
// events, thinking text becomes reasoning, everything else with content
// becomes a response. Empty chunks are never emitted; unknown kinds are
// logged and dropped rather than crashing the stream.
func (o *Automatic) Run(ctx context.Context, query string) iter.Seq2[model.StreamEvent, error] {
	return func(yield func(model.StreamEvent, error) bool) {
		for chunk, err := range o.agent.Stream(ctx, query) {
			if err != nil {
				yield(model.StreamEvent{}, err)
				return
			}

			switch chunk.Kind {
			case ChunkToolCall:
				if !yield(model.ToolCall(chunk.Tool, chunk.Input, chunk.Output), nil) {
					return
				}
			case ChunkThought:
				if chunk.Text == "" {
					continue
				}
				if !yield(model.Reasoning(chunk.Text), nil) {
					return
				}
			case ChunkText:
				if chunk.Text == "" {
					continue
				}
				if !yield(model.Response(chunk.Text), nil) {
					return
				}
			default:
				o.logger.Warn("dropping chunk of unknown kind", "kind", int(chunk.Kind))
			}
		}
	}
}
