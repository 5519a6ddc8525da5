package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// AnalyzeFunc returns the markdown analysis of a security.
// years and target are zero when the model does not set them.
type AnalyzeFunc func(ctx context.Context, id string, years int, target float64) (string, error)

// ListFunc returns the identifiers of the cached securities.
type ListFunc func() ([]string, error)

// analyzeTool exposes an AnalyzeFunc to the model.
type analyzeTool struct{ analyze AnalyzeFunc }

func (analyzeTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name: "analyze",
		Description: `Returns the dividend analysis of a security in markdown: yearly yield,
dividends per year, recent dividends, dividend growth and target prices.
Downloads the price history of the security if it is not cached yet.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id": {
					Type:        genai.TypeString,
					Description: "The security identifier, MARKET:SYMBOL, for instance NYSE:KO.",
				},
				"years": {
					Type:        genai.TypeInteger,
					Description: "Number of years of the historical window. Optional.",
				},
				"target_yield": {
					Type:        genai.TypeNumber,
					Description: "Target yield in percent. Optional.",
				},
			},
			Required: []string{"id"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "The analysis in markdown.",
		},
	}
}

func (t analyzeTool) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	name := t.Declaration().Name
	security, ok := args["id"].(string)
	if !ok {
		return errorResponse(id, name, fmt.Errorf("invalid id: got %T, expected string", args["id"]))
	}
	// JSON numbers are decoded as float64.
	years, _ := args["years"].(float64)
	target, _ := args["target_yield"].(float64)

	report, err := t.analyze(ctx, security, int(years), target)
	if err != nil {
		return errorResponse(id, name, err)
	}
	return outputResponse(id, name, report)
}

// listTool exposes a ListFunc to the model.
type listTool struct{ list ListFunc }

func (listTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "list",
		Description: "Returns the identifiers of the securities already cached, the ones the user follows.",
		Response: &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	}
}

func (t listTool) Call(_ context.Context, id string, _ map[string]any) *genai.FunctionResponse {
	name := t.Declaration().Name
	ids, err := t.list()
	if err != nil {
		return errorResponse(id, name, err)
	}
	return outputResponse(id, name, ids)
}
