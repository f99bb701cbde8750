package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// errNotTerminal marks input that is piped or redirected. Such input is read
// as-is since there is no echo to suppress.
var errNotTerminal = errors.New("input is not a terminal")

type secretPrompt struct {
	in     *os.File
	reader *bufio.Reader
	out    io.Writer
}

func newSecretPrompt(env Env) (*secretPrompt, error) {
	if env.In == nil {
		return nil, errors.New("stdin unavailable")
	}
	return &secretPrompt{
		in:     env.In,
		reader: bufio.NewReader(env.In),
		out:    env.output(),
	}, nil
}

func (prompt *secretPrompt) ask(label string) (string, error) {
	fmt.Fprintf(prompt.out, "%s: ", label)

	restore, err := disableEcho(prompt.in)
	switch {
	case errors.Is(err, errNotTerminal):
		restore = func() {}
	case err != nil:
		return "", fmt.Errorf("disable echo: %w", err)
	}

	line, err := prompt.reader.ReadString('\n')
	restore()
	fmt.Fprintln(prompt.out)

	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
