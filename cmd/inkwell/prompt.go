package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/aretw0/inkwell/pkg/core"
)

var stdin = bufio.NewReader(os.Stdin)

// readLine prints prompt to stderr and reads one trimmed line from stdin.
func readLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads a password without echo when stdin is a terminal.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine(prompt)
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// promptIfEmpty keeps v when set, otherwise asks for it.
func promptIfEmpty(v, prompt string) (string, error) {
	if v != "" {
		return v, nil
	}
	return readLine(prompt)
}

// askConfirm answers y/N questions from stdin. Anything but yes declines.
func askConfirm(r *bufio.Reader, w io.Writer) core.Confirmer {
	return core.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		fmt.Fprintf(w, "%s [y/N] ", prompt)
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}
