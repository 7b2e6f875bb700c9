// Package prompt reads credentials and menu choices from a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput indicates the input stream ended before an answer was read.
var ErrNoInput = errors.New("no input")

// Terminal prompts on out and reads answers from in. When in is a TTY the
// password is read without echo.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int // -1 when in is not a terminal
}

// New returns a Terminal over arbitrary streams.
func New(in io.Reader, out io.Writer) *Terminal {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Terminal{in: bufio.NewReader(in), out: out, fd: fd}
}

// Input asks for a non-empty line of text.
func (t *Terminal) Input(label string) (string, error) {
	for {
		fmt.Fprintf(t.out, "%s: ", label)
		line, err := t.readLine()
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
	}
}

// Password asks for a secret without echoing it on a terminal.
func (t *Terminal) Password(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	if t.fd < 0 {
		return t.readLine()
	}
	b, err := term.ReadPassword(t.fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// Select prints items as a numbered list and returns the chosen 0-based index.
// An empty answer picks def. Invalid answers are asked again.
func (t *Terminal) Select(label string, items []string, def int) (int, error) {
	if len(items) == 0 {
		return 0, errors.New("select: no items")
	}
	fmt.Fprintln(t.out, label)
	for i, it := range items {
		mark := " "
		if i == def {
			mark = ">"
		}
		fmt.Fprintf(t.out, "%s %d) %s\n", mark, i+1, it)
	}
	for {
		fmt.Fprintf(t.out, "Choice [%d]: ", def+1)
		line, err := t.readLine()
		if err != nil {
			return 0, err
		}
		if line == "" {
			return def, nil
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(items) {
			return n - 1, nil
		}
		fmt.Fprintf(t.out, "enter a number between 1 and %d\n", len(items))
	}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
