// Package filter decides which course rows match a search.
//
// A search is described by Criteria: a free-text query plus three categorical
// filters (term, block, program). "all" or an empty value disables a filter.
// A row is kept only when every active filter matches:
//   - Query: any whitespace-separated token is a substring of the row text
//   - Term: the row text matches one of the term's patterns (see termMatchers)
//   - Block: the row text contains the block's spaced or unspaced form
//   - Program: the row or a .title cell has class program-<name>, or the
//     text mentions the program in one of a few fixed forms
//
// Term and block matching is table driven; an unknown term or block tag
// matches every row.
//
// Example usage:
//
//	c := filter.Criteria{Query: "intro calculus", Term: "fall2024", Block: "all", Program: "Mathematics"}
//	matched := filter.Apply(rows, c)
package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// All is the wildcard value for Term, Block and Program.
const All = "all"

// Row is what the filter needs to know about a table row.
type Row interface {
	// LowerText is the row text, lowercased and whitespace-collapsed.
	LowerText() string
	// PlainText is the row text with its original case.
	PlainText() string
	HasClass(class string) bool
	HasTitleClass(class string) bool
}

// Criteria is one search: a keyword query plus term, block and program filters.
type Criteria struct {
	Query   string `json:"query,omitempty"`
	Term    string `json:"term,omitempty"`
	Block   string `json:"block,omitempty"`
	Program string `json:"program,omitempty"`
}

// IsEmpty reports whether the criteria would match every row.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Query) == "" && isAll(c.Term) && isAll(c.Block) && isAll(c.Program)
}

// Normalize fills empty filters with All and trims the query.
func (c Criteria) Normalize() Criteria {
	c.Query = strings.TrimSpace(c.Query)
	if isAll(c.Term) {
		c.Term = All
	}
	if isAll(c.Block) {
		c.Block = All
	}
	if isAll(c.Program) {
		c.Program = All
	}
	return c
}

// Keywords splits the query into lowercase tokens.
func (c Criteria) Keywords() []string {
	return strings.Fields(strings.ToLower(c.Query))
}

// Matches reports whether a data row satisfies every active filter.
func (c Criteria) Matches(r Row) bool {
	text := r.LowerText()
	return matchKeywords(text, c.Keywords()) &&
		matchTerm(text, c.Term) &&
		matchBlock(text, c.Block) &&
		matchProgram(r, c.Program)
}

// Apply returns the header (element 0) followed by the data rows that match c,
// in their original order. An empty input returns an empty result.
func Apply[R Row](rows []R, c Criteria) []R {
	if len(rows) == 0 {
		return rows
	}

	out := make([]R, 0, len(rows))
	out = append(out, rows[0])
	if c.IsEmpty() {
		return append(out, rows[1:]...)
	}

	keywords := c.Keywords()
	var programRe *regexp.Regexp
	if !isAll(c.Program) {
		programRe = programPattern(c.Program)
	}

	for _, r := range rows[1:] {
		text := r.LowerText()
		if !matchKeywords(text, keywords) || !matchTerm(text, c.Term) || !matchBlock(text, c.Block) {
			continue
		}
		if programRe != nil && !matchProgramWith(r, c.Program, programRe) {
			continue
		}
		out = append(out, r)
	}

	return out
}

// String returns a compact description such as
// "q=physics term=fall2024 block=block1".
func (c Criteria) String() string {
	if c.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if q := strings.TrimSpace(c.Query); q != "" {
		parts = append(parts, fmt.Sprintf("q=%s", q))
	}
	if !isAll(c.Term) {
		parts = append(parts, fmt.Sprintf("term=%s", c.Term))
	}
	if !isAll(c.Block) {
		parts = append(parts, fmt.Sprintf("block=%s", c.Block))
	}
	if !isAll(c.Program) {
		parts = append(parts, fmt.Sprintf("program=%s", c.Program))
	}
	return strings.Join(parts, " ")
}

// Describe renders the result-count suffix shown under the table, e.g.
// ` in Fall 2024 during Block 1 in Physics matching "optics"`.
func (c Criteria) Describe() string {
	var b strings.Builder
	if !isAll(c.Term) {
		fmt.Fprintf(&b, " in %s", Label(Terms, c.Term))
	}
	if !isAll(c.Block) {
		fmt.Fprintf(&b, " during %s", Label(Blocks, c.Block))
	}
	if !isAll(c.Program) {
		fmt.Fprintf(&b, " in %s", Label(Programs, c.Program))
	}
	if c.Query != "" {
		fmt.Fprintf(&b, ` matching "%s"`, c.Query)
	}
	return b.String()
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

// matchKeywords is OR across tokens.
func matchKeywords(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func matchProgram(r Row, program string) bool {
	if isAll(program) {
		return true
	}
	return matchProgramWith(r, program, programPattern(program))
}

func matchProgramWith(r Row, program string, re *regexp.Regexp) bool {
	class := "program-" + program
	if r.HasTitleClass(class) || r.HasClass(class) {
		return true
	}

	text := r.PlainText()
	return strings.Contains(text, "("+program+")") ||
		strings.Contains(text, program+"-") ||
		re.MatchString(text)
}

// programPattern matches "<program> <digit>" at a word boundary.
func programPattern(program string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(program) + `\s+\d`)
}
