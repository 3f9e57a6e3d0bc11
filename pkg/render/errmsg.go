package render

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)line (\d+)`),
	regexp.MustCompile(`(?i)at line (\d+)`),
	regexp.MustCompile(`(?i)on line (\d+)`),
	regexp.MustCompile(`\((\d+):\d+\)`),
	regexp.MustCompile(`(?i)Parse error on line (\d+)`),
	regexp.MustCompile(`(?i)Error: .*?line (\d+)`),
}

// ErrorLine extracts the 1-based source line a renderer error refers to.
// The patterns are tried in order and the first positive match wins.
func ErrorLine(msg string) (int, bool) {
	if msg == "" {
		return 0, false
	}
	for _, re := range linePatterns {
		m := re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

var (
	errorPrefixRe = regexp.MustCompile(`(?i)^Error:\s*`)
	parseErrorRe  = regexp.MustCompile(`(?i)Parse error on line (\d+):\s*`)
	expectingRe   = regexp.MustCompile(`(?i)Expecting\s+.+?,\s*got\s+'([^']+)'`)
)

var suggestions = []struct {
	re  *regexp.Regexp
	tip string
}{
	{regexp.MustCompile(`(?i)unknown diagram type`), "Tip: Check the diagram keyword (e.g., flowchart, sequenceDiagram, classDiagram)"},
	{regexp.MustCompile(`(?i)lexical error`), "Tip: Check for unclosed quotes or brackets near the indicated position"},
	{regexp.MustCompile(`(?i)expecting\b.*?\bgot\s+'NEWLINE'`), "Tip: The previous line may be incomplete; check for missing arrows or colons"},
	{regexp.MustCompile(`(?i)expecting\b.*?\bgot\s+'EOF'`), "Tip: A block may be missing its 'end' keyword"},
	{regexp.MustCompile(`(?i)syntax error`), "Tip: Check for typos in keywords or missing colons/arrows"},
	{regexp.MustCompile(`(?i)duplicate`), "Tip: An element with this name already exists; use a unique identifier"},
	{regexp.MustCompile(`(?i)not a valid`), "Tip: Check that the value matches the expected format for this diagram type"},
}

// maxErrorLen bounds the rewritten message, suggestion excluded.
const maxErrorLen = 150

// FormatError rewrites a renderer error for display: it strips the "Error:"
// prefix and "Parse error on line N:" noise, turns "Expecting ..., got 'X'"
// into "Unexpected token 'X' on line N", capitalizes, truncates to 150
// characters and appends the first matching fix suggestion.
func FormatError(msg string) string {
	if msg == "" {
		return ""
	}
	out := errorPrefixRe.ReplaceAllString(msg, "")

	parse := parseErrorRe.FindStringSubmatch(out)
	if parse != nil {
		out = parseErrorRe.ReplaceAllString(out, "")
		if m := expectingRe.FindStringSubmatch(out); m != nil {
			out = "Unexpected token '" + m[1] + "' on line " + parse[1]
		}
	}

	if r, size := utf8.DecodeRuneInString(out); size > 0 {
		out = string(unicode.ToUpper(r)) + out[size:]
	}
	if utf8.RuneCountInString(out) > maxErrorLen {
		out = string([]rune(out)[:maxErrorLen-3]) + "..."
	}

	for _, s := range suggestions {
		if s.re.MatchString(msg) {
			out += " - " + s.tip
			break
		}
	}
	return strings.TrimSpace(out)
}
