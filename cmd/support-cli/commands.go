package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bull/support-router/internal/agent"
)

// exitWords end a chat session.
var exitWords = map[string]bool{"quit": true, "exit": true, "bye": true}

const goodbye = "Thank you for using our customer service! Goodbye!"

// asker answers one question; *app.App implements it.
type asker interface {
	Ask(ctx context.Context, question string) agent.Response
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, a, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return chatLoop(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout())
}

// chatLoop reads questions line by line until an exit word, EOF or cancellation.
func chatLoop(ctx context.Context, a asker, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, titleStyle.Render("Customer Service AI Chatbot"))
	fmt.Fprintln(out, "Ask me anything! Type 'quit' to exit.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n"+youStyle.Render("You:")+" ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n"+goodbye)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if exitWords[strings.ToLower(line)] {
			fmt.Fprintln(out, "\n"+goodbye)
			return nil
		}
		if line == "" {
			continue
		}
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\n"+goodbye)
			return nil
		}

		resp := a.Ask(ctx, line)
		fmt.Fprintf(out, "\n%s %s\n", botStyle.Render("Bot:"), resp.Text)
		if resp.Escalated && resp.EscalationFailed {
			fmt.Fprintln(out, noticeStyle.Render("(Your question could not be forwarded to support.)"))
		}
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, a, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	resp := a.Ask(ctx, strings.Join(args, " "))

	asJSON, _ := cmd.Flags().GetBool("json")
	return printResponse(cmd.OutOrStdout(), resp, asJSON)
}

func printResponse(out io.Writer, resp agent.Response, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(out, resp.Text)
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, a, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s := a.Status(ctx)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Index report")
	fmt.Fprintf(out, "  Corpus source:    %s\n", s.CorpusSource)
	if s.SourceCommit != "" {
		fmt.Fprintf(out, "  Source commit:    %s\n", s.SourceCommit)
	}
	fmt.Fprintf(out, "  FAQ found:        %t (%d sections)\n", s.FAQFound, len(s.FAQSections))
	fmt.Fprintf(out, "  Backend:          %s\n", s.IndexBackend)
	fmt.Fprintf(out, "  Reviews parsed:   %d\n", s.TotalReviews)
	fmt.Fprintf(out, "  Reviews indexed:  %d\n", s.IndexedReviews)
	fmt.Fprintf(out, "  Reviews skipped:  %d (no content)\n", s.SkippedReviews)
	if s.BuildDuration != "" {
		fmt.Fprintf(out, "  Build duration:   %s\n", s.BuildDuration)
	}
	if !s.IndexAvailable {
		fmt.Fprintln(out, "\n"+noticeStyle.Render("Review answers are disabled: no review index could be built."))
	}
	return nil
}
