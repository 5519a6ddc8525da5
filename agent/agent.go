// Package agent implements an interactive assistant, backed by Gemini, that
// discusses the dividend analyses of securities.
package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const prompt = "assist> "

// Agent handles the chat session with the user.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	render      func(string) // prints the answers
	Facilitator *Expert
	Experts     []*Expert
}

// New returns an Agent reading the user from r and writing to w.
// Answers are markdown, printed by render.
func New(w io.Writer, r io.Reader, render func(string), model string, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		render:      render,
		Experts:     experts,
		Facilitator: newFacilitator(model, experts...),
	}
}

// Start creates the chats of every expert.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

// Run sends prompts to the facilitator, then reads the user input until "bye" or the end of input.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to dvd assist. Type 'bye' to exit.")
	for {
		var input string
		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				continue
			}
		} else {
			fmt.Fprint(a.w, prompt)
			var err error
			input, err = a.r.ReadString('\n')
			if errors.Is(err, io.EOF) && strings.TrimSpace(input) == "" {
				return nil // Ctrl+D
			}
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			input = strings.TrimSpace(input)
		}

		switch input {
		case "":
			continue
		case "bye":
			return nil
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		a.render(text(content))
	}
}
