package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/goldbook"
	"google.golang.org/genai"
)

// maxToolRounds bounds the function calls an expert may chain before
// answering.
const maxToolRounds = 10

// Expert is a chat with a model that has a single skill. Other experts
// consult it through its declaration, as a tool taking a question.
type Expert struct {
	Name        string
	Description string
	ModelName   string
	Config      *genai.GenerateContentConfig
	Library     Library // nil when the expert has no function declared.
	chat        *genai.Chat
}

// Start opens the expert's chat.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	if client == nil {
		return errors.New("no genai client")
	}
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return err
	}
	e.chat = chat
	return nil
}

// Ask sends parts to the expert and serves its function calls until it
// answers with text.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	if e.chat == nil {
		return nil, fmt.Errorf("expert %s is not started", e.Name)
	}
	for range maxToolRounds {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return nil, fmt.Errorf("no response from expert %s", e.Name)
		}
		content := resp.Candidates[0].Content

		// A turn may hold several calls, each gets its response.
		var responses []*genai.Part
		for _, p := range content.Parts {
			if p.FunctionCall == nil {
				continue
			}
			if e.Library == nil {
				return nil, fmt.Errorf("expert %s doesn't know how to make function calls", e.Name)
			}
			goldbook.Logger().WithField("expert", e.Name).WithField("function", p.FunctionCall.Name).Debug("function call")
			responses = append(responses, &genai.Part{FunctionResponse: e.Library(ctx, p.FunctionCall)})
		}
		if len(responses) == 0 {
			return content, nil
		}
		parts = responses
	}
	return nil, fmt.Errorf("expert %s did not answer after %d function calls", e.Name, maxToolRounds)
}

// Declaration declares the expert as a function taking a question.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question": {
					Type:        genai.TypeString,
					Description: "The question for the " + e.Name + ", with the customer, period and ledger it is about.",
				},
			},
			Required: []string{"question"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "The answer, in markdown.",
		},
	}
}

// Call asks this expert the question found in args.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	question, ok := args["question"].(string)
	if !ok {
		return failure(id, e.Name, fmt.Errorf("invalid question type %T, expected string", args["question"]))
	}
	content, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return failure(id, e.Name, fmt.Errorf("the %s could not answer: %w", e.Name, err))
	}
	answer := text(content)
	goldbook.Logger().WithField("expert", e.Name).WithField("question", question).Debug(answer)
	return success(id, e.Name, answer)
}

// text joins the text parts of content.
func text(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range content.Parts {
		if p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
