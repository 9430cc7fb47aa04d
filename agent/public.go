package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Documents reads the documents written by the last update.
type Documents interface {
	ReadJSON(name string, v any) error
}

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user holds a crypto currency portfolio on a spot exchange account. They are here
			primarily to understand how their coins performed, and to get news about them.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.

			The user will assume that you know about their coins, ask the Accountant first to understand what they are.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded on Google Search.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert crypto trader,
		Very well aware of all the coins, tokens, exchanges and market events,
		about the latest news of the different projects.
		Ask the Trader whenever you need recent or grounding information.`,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a expert in crypto currency trading, you can search and find about anything related to
			coins, tokens, exchanges, markets etc. You Leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewAccountant returns an expert reading the portfolio documents.
func NewAccountant(docs Documents) *Expert {
	lib := []Function{
		portfolioFunc(docs),
		tickersFunc(docs),
		balancesFunc(docs),
	}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. They are in charge of reading the user's portfolio.
		They know the cost, the value and the profit and loss of every coin ever traded, and the current balances.`,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's crypto portfolio.
				You know how to use the Tools to extract relevant information about the user's portfolio.
				You are part of a team of experts, yours is everything about the user's portfolio. They might ask
				you questions about the user's portfolio, pardon their approximative language and figure out what they meant.

				Use the available tools to get information about the user's portfolio
				  - profit and loss per coin and in total
				  - cost, quantities bought and sold per trading pair
				  - current balances and prices
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// documentFunc declares a function without parameters returning the output of read.
func documentFunc(name, description, response string, read func() (string, error)) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: description,
			Parameters:  &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: response,
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			out, err := read()
			if err != nil {
				return errorResponse(id, name, err)
			}
			return outputResponse(id, name, out)
		},
	}
}

func portfolioFunc(docs Documents) *Func {
	return documentFunc("Portfolio",
		`Portfolio returns the profit and loss of every coin ever traded, most profitable first, and the portfolio totals.`,
		"A markdown report with one row per coin and a total table.",
		func() (string, error) {
			var p cryptofolio.Portfolio
			if err := docs.ReadJSON(cryptofolio.PortfolioSummaryFile, &p); err != nil {
				return "", fmt.Errorf("could not read the portfolio summary, run 'cfo update' first: %w", err)
			}
			return renderer.PortfolioMarkdown(time.Now(), p), nil
		})
}

func tickersFunc(docs Documents) *Func {
	return documentFunc("TickerSummaries",
		`TickerSummaries returns, for every trading pair, the quantities bought and sold, their cost and the proceeds of the sales.`,
		"A JSON array of ticker summaries.",
		func() (string, error) {
			var summaries []cryptofolio.TickerSummary
			return readJSON(docs, cryptofolio.TickerSummaryFile, &summaries)
		})
}

func balancesFunc(docs Documents) *Func {
	return documentFunc("Balances",
		`Balances returns the coins currently held in the spot account, their price and their value.`,
		"A JSON array of balances.",
		func() (string, error) {
			var balances []cryptofolio.ValuedBalance
			return readJSON(docs, cryptofolio.BalanceFile, &balances)
		})
}

// readJSON reads the named document into v and returns it re-encoded.
func readJSON(docs Documents, name string, v any) (string, error) {
	if err := docs.ReadJSON(name, v); err != nil {
		return "", fmt.Errorf("could not read %s, run 'cfo update' first: %w", name, err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
