// Package snippet parses command lines typed in command entry into an
// action and its arguments.
//
// Grammar, whitespace separated:
//
//	line     = action { argument }
//	action   = action name or alias
//	argument = integer | list | range | string
//	integer  = digits                 "42"
//	list     = digits "," digits ...  "2,3,5"   kept in order, duplicates kept
//	range    = digits "-" digits      "3-6"     inclusive, start <= end
//	string   = anything else          "hello"
//
// There is no quoting and no escaping.
package snippet

import (
	"strings"

	"github.com/renato0307/snip/internal/actions"
	"github.com/renato0307/snip/internal/args"
)

// Resolver maps the first token of a line to an action.
type Resolver interface {
	Resolve(token string) (*actions.Action, error)
	Suggest(token string) []string
}

// Outcome classifies a parse.
type Outcome int

const (
	OutcomeEmpty         Outcome = iota // Blank line, nothing to do
	OutcomeOK                           // Command is set
	OutcomeUnknownAction                // First token resolved to nothing
	OutcomeInvalidRange                 // A range argument had start > end
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeOK:
		return "ok"
	case OutcomeUnknownAction:
		return "unknown action"
	case OutcomeInvalidRange:
		return "invalid range"
	default:
		return "unknown"
	}
}

// Command is a parsed line ready for invocation.
type Command struct {
	Action *actions.Action
	Token  string // First token as typed (name or alias)
	Args   args.List
}

// Result is the outcome of parsing one line.
type Result struct {
	Outcome     Outcome
	Command     *Command // Set when Outcome is OutcomeOK
	Err         error    // Set for the failure outcomes
	Suggestions []string // Close action names for OutcomeUnknownAction
}

// OK reports whether the line parsed into a command.
func (r Result) OK() bool {
	return r.Outcome == OutcomeOK
}

// Parser turns lines into commands against a resolver.
type Parser struct {
	resolver Resolver
}

// NewParser creates a parser resolving actions through r.
func NewParser(r Resolver) *Parser {
	return &Parser{resolver: r}
}

// Parse never fails outright: every line maps to exactly one Outcome.
func (p *Parser) Parse(line string) Result {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return Result{Outcome: OutcomeEmpty}
	}

	action, err := p.resolver.Resolve(tokens[0])
	if err != nil {
		return Result{
			Outcome:     OutcomeUnknownAction,
			Err:         err,
			Suggestions: p.resolver.Suggest(tokens[0]),
		}
	}

	list, err := args.ParseAll(tokens[1:])
	if err != nil {
		// args.ErrInvalidRange is the only classification failure
		return Result{Outcome: OutcomeInvalidRange, Err: err}
	}

	return Result{
		Outcome: OutcomeOK,
		Command: &Command{Action: action, Token: tokens[0], Args: list},
	}
}

// Tokenize splits a line on runs of whitespace.
func Tokenize(line string) []string {
	return strings.Fields(line)
}
