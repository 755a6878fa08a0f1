// Package functions declares the capabilities exposed to the model.
package functions

import (
	"context"

	"github.com/rmarques/searchagent/internal/agent"
	"github.com/rmarques/searchagent/internal/search"
)

// WebSearchName is the capability name on the automatic path.
const WebSearchName = "web_search"

// BrowserUseName is the capability name on the manual path.
const BrowserUseName = "browserUse"

// CreateWebSearchFunctionDeclaration exposes the searcher to the tool
// agent's loop.
func CreateWebSearchFunctionDeclaration(s search.Searcher) *agent.FunctionDeclaration {
	return &agent.FunctionDeclaration{
		Name:        WebSearchName,
		Description: "Search the web and return top 3 result titles for a query",
		InputArg:    "query",
		ParametersSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query to issue",
				},
			},
			"required": []string{"query"},
		},
		Call: func(ctx context.Context, input string) (string, error) {
			return s.Search(ctx, input)
		},
	}
}

// CreateBrowserUseFunctionDeclaration is the single capability on the
// manual path's allow-list.
func CreateBrowserUseFunctionDeclaration(s search.Searcher) *agent.FunctionDeclaration {
	return &agent.FunctionDeclaration{
		Name:        BrowserUseName,
		Description: "Gets information from the internet using the browser",
		InputArg:    "input",
		ParametersSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"input": map[string]any{
					"type": "string",
				},
			},
			"required": []string{"input"},
		},
		Call: func(ctx context.Context, input string) (string, error) {
			return s.Search(ctx, input)
		},
	}
}
