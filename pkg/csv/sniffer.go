package csv

import (
	"regexp"
	"strings"
	"unicode"
)

// candidateSeparators are the separators DetectSeparator chooses from, in
// order of preference on ties.
var candidateSeparators = []rune{';', ',', '\t', '|'}

var (
	headerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`),      // snake_case or identifier
		regexp.MustCompile(`^[a-zA-Z]+[A-Z][a-zA-Z]*$`),     // camelCase
		regexp.MustCompile(`^[A-Z][a-z]+([ ][A-Z][a-z]+)*$`), // Title Case
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	}
)

// Sniffer guesses the separator of a sample and whether its first row is a
// header row.
type Sniffer struct {
	sample  string
	quote   rune
	newline rune

	separator rune
	hasHeader bool
	analyzed  bool
}

// NewSniffer creates a Sniffer for sample, which uses quote and newline.
// For best results, provide at least 2-3 lines of data.
func NewSniffer(sample string, quote, newline rune) *Sniffer {
	return &Sniffer{
		sample:  sample,
		quote:   quote,
		newline: newline,
	}
}

// SniffOptions returns the default options with the separator and header
// handling detected from sample.
//
// Example:
//
//	opts := csv.SniffOptions("name,age\nAlice,30\n")
//	// opts.Separator == ',', opts.HasHeaders == true
func SniffOptions(sample string) Options {
	opts := DefaultOptions()
	s := NewSniffer(sample, opts.Quote, opts.Newline)
	opts.Separator = s.DetectSeparator()
	opts.HasHeaders = s.HasHeader()
	return opts
}

func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	s.separator = s.detectSeparator()
	s.hasHeader = s.detectHeader()
	s.analyzed = true
}

// DetectSeparator returns the detected separator, ';' when nothing matches.
func (s *Sniffer) DetectSeparator() rune {
	s.analyze()
	return s.separator
}

// HasHeader reports whether the first row looks like a header row.
func (s *Sniffer) HasHeader() bool {
	s.analyze()
	return s.hasHeader
}

func (s *Sniffer) lines() []string {
	var lines []string
	for _, line := range strings.Split(s.sample, string(s.newline)) {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// detectSeparator scores each candidate by its count on the first line, with
// a bonus when every line has the same count.
func (s *Sniffer) detectSeparator() rune {
	lines := s.lines()
	if len(lines) == 0 {
		return candidateSeparators[0]
	}

	best, bestScore := candidateSeparators[0], 0
	for _, sep := range candidateSeparators {
		first := s.count(lines[0], sep)
		if first == 0 {
			continue
		}
		score := first * 10
		for _, line := range lines[1:] {
			if s.count(line, sep) != first {
				score = first
				break
			}
		}
		if score > bestScore {
			best, bestScore = sep, score
		}
	}
	return best
}

// count counts occurrences of sep outside quoted sections.
func (s *Sniffer) count(line string, sep rune) int {
	var (
		n        int
		inQuotes bool
	)
	for _, ch := range line {
		if ch == s.quote {
			inQuotes = !inQuotes
		} else if ch == sep && !inQuotes {
			n++
		}
	}
	return n
}

// detectHeader compares how header-like and how data-like the first line is.
func (s *Sniffer) detectHeader() bool {
	lines := s.lines()
	if len(lines) < 2 {
		return false
	}

	var headerScore, dataScore int
	for _, field := range s.split(lines[0], s.separator) {
		field = strings.TrimSpace(field)
		if isLikelyHeader(field) {
			headerScore++
		}
		if isLikelyData(field) {
			dataScore++
		}
	}
	return headerScore > dataScore
}

// split splits a line on sep, respecting quotes and removing them.
func (s *Sniffer) split(line string, sep rune) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, ch := range line {
		switch {
		case ch == s.quote:
			inQuotes = !inQuotes
		case ch == sep && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(fields, current.String())
}

func isLikelyHeader(s string) bool {
	if s == "" || isNumeric(s) {
		return false
	}
	for _, pattern := range headerPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

func isLikelyData(s string) bool {
	if s == "" {
		return false
	}
	if isNumeric(s) || strings.Contains(s, "@") {
		return true
	}
	for _, pattern := range datePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// isNumeric checks if a string represents a decimal number.
func isNumeric(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "-")
	hasDot := false
	for _, ch := range s {
		if ch == '.' {
			if hasDot {
				return false
			}
			hasDot = true
		} else if !unicode.IsDigit(ch) {
			return false
		}
	}
	return len(s) > 0
}
