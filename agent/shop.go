package agent

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/etnz/goldbook"
	"github.com/etnz/goldbook/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name: "Facilitator",
		// Used by facilitators to know what they can expected from the expert
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			The user runs a gold and jewelry shop. The shop keeps two ledgers: gold in grams and
			money in currency. Customers bring and take gold and money, and the shop owner wants
			to know where each customer and the shop stand.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.
			Answer in markdown, amounts with their unit.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewGoldMarket returns an expert of the gold market, grounded with Google Search.
func NewGoldMarket() *Expert {
	return &Expert{
		Name: "GoldMarket",
		Description: `This is an expert of the gold and jewelry market.
		It knows about gold prices per gram, purities (carats) and the latest news about precious metals.
		Ask the GoldMarket whenever you need a price or recent information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert of the gold market. You search the current price of gold per gram
			and per carat, and the news that move it. You leverage Google Search to
			ground your assertions in a solid truth, and always give the date of a price.
				`}}},
		},
	}
}

// NewAccountant returns the expert reading the shop's ledgers.
func NewAccountant(shop *goldbook.Shop, opts renderer.Options) *Expert {
	lib := []Function{
		ledgerFunc(shop, opts),
		summaryFunc(shop, opts),
		customersFunc(shop),
	}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. It reads the shop's gold and money ledgers.
		It can list entries with their running balance over any period or for a single customer,
		summarize both ledgers and list customers.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the accountant of a gold and jewelry shop.
				You know how to use the Tools to extract relevant information about the shop's ledgers.
				The running balance of an entry is the shop's position right after it, capital included.
				The customer balance is the customer's own running total.
				Look customers up by name with the customers tool before filtering a ledger on one.
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

var periodSchema = map[string]*genai.Schema{
	"range": {
		Type:        genai.TypeString,
		Description: "The period: all, today, yesterday, day-before-yesterday, week, month or custom. Default is all.",
		Enum:        []string{"all", "today", "yesterday", "day-before-yesterday", "week", "month", "custom"},
	},
	"start": {
		Type:        genai.TypeString,
		Description: "First day of a custom range, YYYY-MM-DD or relative like -7d, -1m.",
	},
	"end": {
		Type:        genai.TypeString,
		Description: "Last day of a custom range, YYYY-MM-DD or relative. Default is today.",
	},
}

func ledgerFunc(shop *goldbook.Shop, opts renderer.Options) *Func {
	const name = "ledger_view"
	props := map[string]*genai.Schema{
		"unit": {
			Type:        genai.TypeString,
			Description: "The ledger: gold or money.",
			Enum:        []string{"gold", "money"},
		},
		"customer": {
			Type:        genai.TypeInteger,
			Description: "Only show the entries of this customer id.",
		},
		"page": {
			Type:        genai.TypeInteger,
			Description: "The page to show, starting at 1.",
		},
	}
	for k, v := range periodSchema {
		props[k] = v
	}
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Lists the entries of a ledger with their running balance, newest or oldest first as the ledger usually shows them, then the totals.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   []string{"unit"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted page of the ledger.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			unit, err := goldbook.ParseUnit(stringArg(args, "unit"))
			if err != nil {
				return failure(id, name, err)
			}
			kind, err := goldbook.ParseRangeKind(stringArg(args, "range"))
			if err != nil {
				return failure(id, name, err)
			}
			v := shop.View(ctx, goldbook.ViewRequest{
				Unit:     unit,
				Range:    kind,
				Start:    stringArg(args, "start"),
				End:      stringArg(args, "end"),
				Customer: intArg(args, "customer"),
				Page:     int(intArg(args, "page")),
			})
			return success(id, name, renderer.LedgerMarkdown(v, opts))
		},
	}
}

func summaryFunc(shop *goldbook.Shop, opts renderer.Options) *Func {
	const name = "summary"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Summarizes both ledgers over a period: capital, received, paid and closing balance, and the shop's worth at the configured gold rate.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: periodSchema,
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted summary.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			kind, err := goldbook.ParseRangeKind(stringArg(args, "range"))
			if err != nil {
				return failure(id, name, err)
			}
			s := shop.Summary(ctx, kind, stringArg(args, "start"), stringArg(args, "end"))
			return success(id, name, renderer.SummaryMarkdown(s, opts))
		},
	}
}

func customersFunc(shop *goldbook.Shop) *Func {
	const name = "customers"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Lists the shop's customers with their id, name and phone.",
			Parameters:  &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of customers.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			customers, err := shop.Customers(ctx)
			if err != nil {
				return failure(id, name, err)
			}
			var b strings.Builder
			b.WriteString("| ID | Name | Phone |\n|---:|:---|:---|\n")
			for _, c := range customers {
				fmt.Fprintf(&b, "| %d | %s | %s |\n", c.ID, c.Name, c.Phone)
			}
			return success(id, name, b.String())
		},
	}
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

// intArg reads an integer argument, models send numbers as float64.
// Values out of the int64 range are clamped.
func intArg(args map[string]any, name string) int64 {
	switch v := args[name].(type) {
	case float64:
		switch {
		case math.IsNaN(v):
			return 0
		case v >= math.MaxInt64:
			return math.MaxInt64
		case v <= math.MinInt64:
			return math.MinInt64
		}
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	}
	return 0
}
