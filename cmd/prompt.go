package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

var stdin = bufio.NewReader(os.Stdin)

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirm asks a yes/no question on stderr. It fails with
// CONFIRMATION_REQUIRED when stdin is not a terminal.
func confirm(question string) (bool, error) {
	if !stdinIsTerminal() {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	answer, _ := stdin.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}

// readLine prompts for a single line of input.
func readLine(prompt string) (string, error) {
	if stdinIsTerminal() {
		fmt.Fprint(os.Stderr, prompt)
	}
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads a password without echo on a terminal. Piped input is
// read line by line so scripts can supply it.
func readPassword(prompt string) (string, error) {
	if !stdinIsTerminal() {
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}
