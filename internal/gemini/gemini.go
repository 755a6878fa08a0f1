// Package gemini adapts the genai SDK to the model streaming interface
// the orchestrators consume.
package gemini

import (
	"context"
	"fmt"
	"iter"
	"time"

	"google.golang.org/genai"

	"github.com/rmarques/searchagent/internal/agent"
)

// SystemInstruction builds the date-stamped instruction for the
// automatic path.
func SystemInstruction(now time.Time) string {
	return fmt.Sprintf("The current date is %s. Use this as reference.", now.Format("2006-01-02"))
}

// ManualSystemInstruction builds the instruction for the manual path.
func ManualSystemInstruction(now time.Time) string {
	return fmt.Sprintf("You are an AI assistant that helps people find information. and The current date is %s. Use this as reference.", now.Format("2006-01-02"))
}

// Model streams Gemini responses for a fixed model name, system
// instruction and declared tool set. Generation is deterministic:
// temperature is pinned at zero.
type Model struct {
	client            *genai.Client
	name              string
	systemInstruction string
	functions         []*agent.FunctionDeclaration
}

// NewClient creates the genai client for the Gemini API backend.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return client, nil
}

// NewModel wraps a client. functions are the capabilities attached when
// streaming with tools enabled; they form the allow-list the model must
// respect.
func NewModel(client *genai.Client, name, systemInstruction string, functions ...*agent.FunctionDeclaration) *Model {
	return &Model{
		client:            client,
		name:              name,
		systemInstruction: systemInstruction,
		functions:         functions,
	}
}

// Stream produces the model's streaming response for the given history.
func (m *Model) Stream(ctx context.Context, history []*genai.Content, mode agent.ToolMode) iter.Seq2[*genai.GenerateContentResponse, error] {
	return m.client.Models.GenerateContentStream(ctx, m.name, history, m.buildConfig(mode))
}

func (m *Model) buildConfig(mode agent.ToolMode) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0)),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: m.systemInstruction}},
		},
	}

	if mode != agent.ToolModeValidated || len(m.functions) == 0 {
		return config
	}

	declarations := make([]*genai.FunctionDeclaration, 0, len(m.functions))
	names := make([]string, 0, len(m.functions))
	for _, fd := range m.functions {
		declarations = append(declarations, fd.Declaration())
		names = append(names, fd.Name)
	}

	config.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	config.ToolConfig = &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{
			Mode:                 genai.FunctionCallingConfigModeValidated,
			AllowedFunctionNames: names,
		},
	}

	return config
}

var _ agent.ModelStreamer = (*Model)(nil)
