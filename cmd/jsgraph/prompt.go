package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// prompter reads answers from an interactive terminal. Reads run in a
// goroutine so that a cancelled context is not stuck behind a blocked read.
type prompter struct {
	lines <-chan string
	out   io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return &prompter{lines: lines, out: out}
}

func (p *prompter) ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(p.out, question)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// askRoot prompts until a non-empty path is given
func (p *prompter) askRoot(ctx context.Context) (string, error) {
	for {
		answer, err := p.ask(ctx, "Enter the path to the codebase directory: ")
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

// confirm loops until the answer is yes or no
func (p *prompter) confirm(ctx context.Context, question string) (bool, error) {
	for {
		answer, err := p.ask(ctx, question+" (yes/no): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer yes or no.")
	}
}
