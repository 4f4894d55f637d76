package ui

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

// ErrNoInput is returned when input ends before an answer is given
var ErrNoInput = errors.New("no input")

// Prompt asks questions on a line-oriented terminal
type Prompt struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

// NewPrompt reads answers from in and writes questions to out
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: in, reader: bufio.NewReader(in), out: out}
}

// Ask prints label and returns the trimmed answer
func (p *Prompt) Ask(label string) (string, error) {
	fmt.Fprint(p.out, labelStyle.Render(label)+" ")
	return p.readLine()
}

// AskSecret is Ask without echo when input is a terminal
func (p *Prompt) AskSecret(label string) (string, error) {
	fmt.Fprint(p.out, labelStyle.Render(label)+" ")

	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}
	return p.readLine()
}

// AskDefault returns def when the answer is empty
func (p *Prompt) AskDefault(label, def string) (string, error) {
	answer, err := p.Ask(fmt.Sprintf("%s %s", label, dimStyle.Render("["+def+"]")))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskInt asks until the answer is a positive integer
func (p *Prompt) AskInt(label string, def int) (int, error) {
	for {
		answer, err := p.AskDefault(label, strconv.Itoa(def))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n > 0 {
			return n, nil
		}
		fmt.Fprintln(p.out, warningStyle.Render("⚠ enter a positive whole number"))
	}
}

// Choose asks until the answer is accepted by parse
func (p *Prompt) Choose(label, def string, parse func(string) error) (string, error) {
	for {
		answer, err := p.AskDefault(label, def)
		if err != nil {
			return "", err
		}
		if err := parse(answer); err != nil {
			fmt.Fprintln(p.out, warningStyle.Render("⚠ "+err.Error()))
			continue
		}
		return answer, nil
	}
}

// Confirm asks a yes/no question
func (p *Prompt) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		answer, err := p.Ask(fmt.Sprintf("%s %s", label, dimStyle.Render("["+hint+"]")))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, warningStyle.Render("⚠ answer y or n"))
	}
}

func (p *Prompt) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
