package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"google.golang.org/genai"
)

// Agent is the shop assistant: a facilitator answering the shop owner's
// questions with the help of experts.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert
	// Print writes an answer, plain text when nil.
	Print func(w io.Writer, answer string)

	started bool
}

// New creates an Agent answering on w the questions read from r, with the
// help of experts.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start opens the chat of every expert.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range append(slices.Clone(a.Experts), a.Facilitator) {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("could not start expert %s: %w", e.Name, err)
		}
	}
	a.started = true
	return nil
}

const prompt = "gb> "

const help = `Ask anything about the shop's gold and money ledgers, for instance:

  how much gold does Alice owe us?
  what did we pay this week?

Commands:

  /experts  lists the experts the assistant consults
  /help     shows this help
  /bye      ends the session
`

// Run reads questions until "/bye" or the end of input. The prompts are
// asked first, as if typed. Experts are started on the first question, so
// that commands work offline.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	fmt.Fprintln(a.w, "Welcome to the goldbook assistant. Type /help for help, /bye to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		input, err := a.next(&prompts)
		if err == io.EOF {
			fmt.Fprintln(a.w)
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.ToLower(input) {
		case "":
			continue
		case "/bye", "bye", "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprint(a.w, help)
			continue
		case "/experts":
			for _, e := range a.Experts {
				fmt.Fprintf(a.w, "- %s: %s\n", e.Name, firstLine(e.Description))
			}
			continue
		}
		if strings.HasPrefix(input, "/") {
			fmt.Fprintf(a.w, "unknown command %s, type /help\n", input)
			continue
		}

		if !a.started {
			if err := a.Start(ctx, client); err != nil {
				return err
			}
		}
		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		a.print(text(content))
	}
}

// next returns the next pending prompt, echoed, or the next line of input.
func (a *Agent) next(prompts *[]string) (string, error) {
	if len(*prompts) > 0 {
		input := strings.TrimSpace((*prompts)[0])
		*prompts = (*prompts)[1:]
		fmt.Fprintln(a.w, input)
		return input, nil
	}
	line, err := a.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimSpace(line), err
}

func (a *Agent) print(answer string) {
	if a.Print != nil {
		a.Print(a.w, answer)
		return
	}
	fmt.Fprintln(a.w, answer)
}

func firstLine(s string) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	return s
}
