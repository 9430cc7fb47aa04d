package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/etnz/cryptofolio"
	"google.golang.org/genai"
)

// Session is a chat about the portfolio written by the last update.
//
// The user talks to a facilitator that consults the Accountant about the
// portfolio files and the Trader about the market.
type Session struct {
	out  io.Writer
	in   *bufio.Scanner
	docs Documents

	lead *Expert
	team []*Expert

	// Render formats the markdown answers before printing. Answers are printed as is if nil.
	Render func(markdown string) string
}

// NewSession returns a session reading questions from in and printing answers to out.
func NewSession(out io.Writer, in io.Reader, docs Documents) *Session {
	team := []*Expert{NewAccountant(docs), NewTrader()}
	return &Session{
		out:  out,
		in:   bufio.NewScanner(in),
		docs: docs,
		lead: newFacilitator(team...),
		team: team,
	}
}

func (s *Session) open(ctx context.Context, client *genai.Client) error {
	for _, e := range append(slices.Clone(s.team), s.lead) {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("cannot open %s chat: %w", e.Name, err)
		}
	}
	return nil
}

// greeting summarizes the last update, or tells how to get one.
func greeting(docs Documents) string {
	var p cryptofolio.Portfolio
	if err := docs.ReadJSON(cryptofolio.PortfolioSummaryFile, &p); err != nil {
		return "No portfolio yet, run 'cfo update' first to fetch your orders and balances."
	}
	return fmt.Sprintf("Your portfolio holds %d coins worth %v, pnl %v (%v).",
		len(p.Assets), p.Total.Value, p.Total.PNL.SignedString(), p.Total.PNLPercent.SignedString())
}

// isGoodbye reports whether the user wants to leave.
func isGoodbye(input string) bool {
	switch strings.ToLower(input) {
	case "bye", "quit", "exit":
		return true
	}
	return false
}

const prompt = "assist> "

// Run answers the questions in prompts, then reads questions until the input
// ends or the user says bye.
func (s *Session) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if err := s.open(ctx, client); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Welcome to cfo crypto assist. Type 'bye' to exit.")
	fmt.Fprintln(s.out, greeting(s.docs))

	for {
		fmt.Fprint(s.out, prompt)
		var question string
		if len(prompts) > 0 {
			question, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			fmt.Fprintln(s.out, question)
		} else {
			if !s.in.Scan() {
				return s.in.Err() // nil on EOF
			}
			question = strings.TrimSpace(s.in.Text())
		}
		if question == "" {
			continue
		}
		if isGoodbye(question) {
			return nil
		}

		answer, err := s.lead.Ask(ctx, &genai.Part{Text: question})
		if err != nil {
			return err
		}
		if s.Render != nil {
			answer = s.Render(answer)
		}
		fmt.Fprintln(s.out, answer)
	}
}
