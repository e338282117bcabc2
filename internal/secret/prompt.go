package secret

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// ErrNotATerminal indicates an interactive prompt was needed but stdin is
// not a terminal (e.g. a non-interactive batch run).
var ErrNotATerminal = errors.New("stdin is not a terminal; cannot prompt for passphrase")

// PromptPassphrase reads a passphrase from the terminal without echo.
func PromptPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotATerminal
	}

	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}

	return string(pass), nil
}

// PromptLine reads a single visible line from stdin. Used for non-secret
// interactive input.
func PromptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no input")
	}

	return scanner.Text(), nil
}
