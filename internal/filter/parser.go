package filter

import (
	"fmt"
	"net/url"
	"strings"
)

// Query parameter names used by the browser page and the API.
const (
	ParamQuery   = "q"
	ParamTerm    = "term"
	ParamBlock   = "block"
	ParamProgram = "program"
)

// ParseCriteria reads q, term, block and program from query parameters.
// Missing filters default to All.
func ParseCriteria(values url.Values) Criteria {
	return Criteria{
		Query:   values.Get(ParamQuery),
		Term:    values.Get(ParamTerm),
		Block:   values.Get(ParamBlock),
		Program: values.Get(ParamProgram),
	}.Normalize()
}

// Encode writes the active filters into values, omitting wildcards.
func (c Criteria) Encode(values url.Values) {
	if q := strings.TrimSpace(c.Query); q != "" {
		values.Set(ParamQuery, q)
	}
	if !isAll(c.Term) {
		values.Set(ParamTerm, c.Term)
	}
	if !isAll(c.Block) {
		values.Set(ParamBlock, c.Block)
	}
	if !isAll(c.Program) {
		values.Set(ParamProgram, c.Program)
	}
}

// ParseExpression parses a one-line search such as
// "intro physics term:fall2024 block:1 program:Physics".
//
// Supported keys:
//   - term:<tag>     one of the Terms values
//   - block:<tag>    a Blocks value, or its short form (1-8, a, b, c, h)
//   - program:<tag>  one of the Programs values (case-insensitive)
//
// Everything else becomes part of the keyword query.
func ParseExpression(input string) (Criteria, error) {
	c := Criteria{Term: All, Block: All, Program: All}
	var words []string

	for _, field := range strings.Fields(input) {
		key, value, ok := strings.Cut(field, ":")
		if !ok || value == "" {
			words = append(words, field)
			continue
		}

		switch strings.ToLower(key) {
		case ParamTerm:
			term, err := lookup(Terms, value)
			if err != nil {
				return Criteria{}, fmt.Errorf("parsing term: %w", err)
			}
			c.Term = term
		case ParamBlock:
			block, err := ParseBlock(value)
			if err != nil {
				return Criteria{}, err
			}
			c.Block = block
		case ParamProgram:
			program, err := lookup(Programs, value)
			if err != nil {
				return Criteria{}, fmt.Errorf("parsing program: %w", err)
			}
			c.Program = program
		default:
			words = append(words, field)
		}
	}

	c.Query = strings.Join(words, " ")
	return c, nil
}

// ParseBlock accepts a Blocks value ("block1", "blockA") or its short form
// ("1", "a", "H") and returns the canonical value.
func ParseBlock(input string) (string, error) {
	v := strings.TrimSpace(input)
	if v == "" || strings.EqualFold(v, All) {
		return All, nil
	}
	if !strings.HasPrefix(strings.ToLower(v), "block") {
		v = "block" + v
	}
	block, err := lookup(Blocks, v)
	if err != nil {
		return "", fmt.Errorf("parsing block: %w", err)
	}
	return block, nil
}

// lookup returns the canonical spelling of value from options.
func lookup(options []Option, value string) (string, error) {
	for _, o := range options {
		if strings.EqualFold(o.Value, value) {
			return o.Value, nil
		}
	}
	return "", fmt.Errorf("unknown value %q", value)
}
