package launch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotInteractive is returned by Decline.
var ErrNotInteractive = errors.New("non-interactive terminal")

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Decline answers no without asking. Used when stdin is not a terminal.
type Decline struct{}

func (Decline) Confirm(string) (bool, error) {
	return false, ErrNotInteractive
}

// Prompt reads the answer from a console. Only "y" and "yes" (any case)
// mean yes.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a Prompt reading from in and writing the question to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

func (p *Prompt) Confirm(question string) (bool, error) {
	fmt.Fprint(p.out, "\n"+question)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
