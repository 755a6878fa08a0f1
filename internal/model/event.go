// Package model defines the wire-level types shared by the HTTP layer
// and the orchestrators.
package model

import "encoding/json"

// EventType tags a StreamEvent.
type EventType string

const (
	EventReasoning EventType = "reasoning"
	EventToolCall  EventType = "tool_call"
	EventResponse  EventType = "response"
	EventError     EventType = "error"
)

// StreamEvent is one discrete unit of output sent to the client while a
// response is being produced. Exactly one variant is populated per type:
// reasoning and response carry Content, tool_call carries Tool, Input
// and Output.
type StreamEvent struct {
	Type    EventType
	Content string
	Tool    string
	Input   string
	Output  string
}

// MarshalJSON encodes only the fields of the event's variant. A
// tool_call always carries its tool, input and output keys, even when
// the output is empty.
func (e StreamEvent) MarshalJSON() ([]byte, error) {
	if e.Type == EventToolCall {
		return json.Marshal(struct {
			Type   EventType `json:"type"`
			Tool   string    `json:"tool"`
			Input  string    `json:"input"`
			Output string    `json:"output"`
		}{e.Type, e.Tool, e.Input, e.Output})
	}
	return json.Marshal(struct {
		Type    EventType `json:"type"`
		Content string    `json:"content"`
	}{e.Type, e.Content})
}

// Reasoning builds a reasoning event.
func Reasoning(content string) StreamEvent {
	return StreamEvent{Type: EventReasoning, Content: content}
}

// ToolCall builds a tool_call event for a completed tool invocation.
func ToolCall(tool, input, output string) StreamEvent {
	return StreamEvent{Type: EventToolCall, Tool: tool, Input: input, Output: output}
}

// Response builds a response event carrying final answer text.
func Response(content string) StreamEvent {
	return StreamEvent{Type: EventResponse, Content: content}
}

// Error builds an error event. Errors that occur after the stream has
// opened are delivered this way rather than dropping the connection.
func Error(content string) StreamEvent {
	return StreamEvent{Type: EventError, Content: content}
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Query  string `json:"query" validate:"required"`
	Manual bool   `json:"manual"`
}
