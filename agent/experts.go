package agent

import (
	"google.golang.org/genai"
)

func instruction(s string) *genai.Content {
	return genai.NewContentFromText(s, genai.RoleUser)
}

// newFacilitator returns the expert talking to the user, asking the other experts.
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclarations(experts)},
			},
			SystemInstruction: instruction(`You assist a dividend investor.
Learn about the experts' skills from your tools and ask them questions: they keep the context of your previous questions.
Devise a plan of questions to ask each expert and come up with the best response to the user's request.
Answer in markdown, be concise. Never invent figures: quote the Analyst's.`),
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst returns the expert computing dividend analyses.
func NewAnalyst(model string, analyze AnalyzeFunc, list ListFunc) *Expert {
	lib := []Function{analyzeTool{analyze}, listTool{list}}
	return &Expert{
		Name: "Analyst",
		Description: `The Analyst computes the dividend analysis of a security from its daily price history:
yearly yield, dividends per year, payment frequency, dividend growth, projected dividend of the
current year and target prices. It also knows the securities the user follows.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclarations(lib)},
			},
			SystemInstruction: instruction(`You are a financial analyst specialized in dividends.
Use your tools to get the analysis of securities, and explain the figures: regularity of the
payments, dividend growth, and how the most recent price compares to the target prices.
The historical target price is the price at which the mean yearly dividend of the window pays the
target yield, the current target price does the same with the projected dividend of the current year.`),
		},
		Library: NewLibrary(lib),
	}
}

// NewReporter returns the expert searching the news.
func NewReporter(model string) *Expert {
	return &Expert{
		Name: "Reporter",
		Description: `The Reporter searches the web for recent news about companies and funds:
dividend announcements, cuts, special dividends, results. Ask the Reporter whenever you need
information that a price history cannot tell.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`You are a financial reporter. Leverage Google Search to ground
your assertions and give the date and source of the news you report.`),
		},
	}
}
