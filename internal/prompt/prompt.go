package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"bikeshare/internal/catalog"
	"bikeshare/internal/trips"
)

// Stop is the sentinel that ends the session from any filter prompt.
const Stop = catalog.ReservedName

// Separator is printed after each major step.
var Separator = strings.Repeat("-", 40)

// Confirmation is the answer to a yes/no question.
type Confirmation int

const (
	Declined Confirmation = iota
	Affirmative
)

func (c Confirmation) String() string {
	if c == Affirmative {
		return "affirmative"
	}
	return "declined"
}

// Prompter asks for filter selections over line-based input and output.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	cities *catalog.Catalog
}

func New(in io.Reader, out io.Writer, cities *catalog.Catalog) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, cities: cities}
}

func (p *Prompter) ask(question string) (string, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", err
	}
	// Lines of any length are read whole; a last line without a newline
	// still counts as an answer.
	line, err := p.in.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", io.EOF
		}
	} else if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func isStop(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), Stop)
}

// Filters asks for a city, month and day. It re-prompts until each answer
// is in its vocabulary. Entering stop (or reaching end of input) at any
// prompt skips the remaining ones and returns a stopped selection.
func (p *Prompter) Filters() (trips.Selection, error) {
	var sel trips.Selection
	fmt.Fprintln(p.out, "Hello! Let's explore some US bikeshare data!")
	defer fmt.Fprintln(p.out, Separator)

	city, stopped, err := p.until("Enter Requested City (or Stop): ",
		"Valid City list is "+strings.Join(p.cities.Names(), ", "),
		p.lookupCity)
	if err != nil || stopped {
		sel.Stopped = stopped
		return sel, err
	}
	sel.City = city

	month, stopped, err := p.until("Enter Requested Month (or All or Stop): ",
		"Month must be entered as All or a valid Month (January thru December)",
		trips.NormalizeMonth)
	if err != nil || stopped {
		sel.Stopped = stopped
		return sel, err
	}
	sel.Month = month

	day, stopped, err := p.until("Enter Requested Day (or All or Stop): ",
		"Day must be entered as All or a valid Weekday (Monday thru Sunday)",
		trips.NormalizeDay)
	if err != nil || stopped {
		sel.Stopped = stopped
		return sel, err
	}
	sel.Day = day
	return sel, nil
}

func (p *Prompter) lookupCity(name string) (string, bool) {
	c, ok := p.cities.Lookup(name)
	return c.Name, ok
}

// until repeats question until accept returns true or the user stops.
func (p *Prompter) until(question, hint string, accept func(string) (string, bool)) (string, bool, error) {
	for {
		answer, err := p.ask(question)
		if err == io.EOF {
			return "", true, nil
		}
		if err != nil {
			return "", false, err
		}
		if isStop(answer) {
			return "", true, nil
		}
		if v, ok := accept(answer); ok {
			return v, false, nil
		}
		fmt.Fprintln(p.out, hint)
	}
}

// Confirm asks a yes/no question. Only yes or y count as affirmative.
func (p *Prompter) Confirm(question string) (Confirmation, error) {
	answer, err := p.ask(question)
	if err == io.EOF {
		return Declined, nil
	}
	if err != nil {
		return Declined, err
	}
	return ParseConfirmation(answer), nil
}

// ParseConfirmation maps free text to a Confirmation.
func ParseConfirmation(s string) Confirmation {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return Affirmative
	default:
		return Declined
	}
}
