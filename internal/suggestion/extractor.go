// Package suggestion turns a language-model completion into a company suggestion,
// falling back to a fixed pool whenever the live path cannot produce one.
package suggestion

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/hireflow/internal/types"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)
	lineBreak  = regexp.MustCompile(`\r\n|\r|\n`)
	spaceRun   = regexp.MustCompile(`\s+`)
)

// nameLabels are folded label texts that may precede the company name.
var nameLabels = map[string]bool{
	"nombre de la empresa": true,
	"nombre de empresa":    true,
	"nombre empresa":       true,
	"nombre":               true,
	"empresa":              true,
	"compania":             true,
	"company":              true,
	"company name":         true,
}

// Extract parses a raw completion into a CompanySuggestion.
//
// Lines are scanned in order. The first line that is not email-shaped is the
// company name, the first email-shaped line supplies the contact email, and
// every other line is appended to the paragraph. When any of the three fields
// ends up empty the partial suggestion is returned together with an
// *IncompleteError.
func Extract(raw string) (types.CompanySuggestion, error) {
	var name, email string
	var paragraph strings.Builder

	for _, line := range cleanLines(raw) {
		isEmail := emailShape.MatchString(line)

		if name == "" && !isEmail {
			name = cutLabel(line, isNameLabel)
			continue
		}
		if email == "" && isEmail {
			email = firstEmail(line)
			continue
		}
		paragraph.WriteString(cutLabel(line, isParagraphLabel))
		paragraph.WriteByte(' ')
	}

	s := types.CompanySuggestion{
		CompanyName:  name,
		ContactEmail: email,
		Paragraph:    strings.TrimSpace(paragraph.String()),
	}

	var missing []string
	if s.CompanyName == "" {
		missing = append(missing, "companyName")
	}
	if s.ContactEmail == "" {
		missing = append(missing, "contactEmail")
	}
	if s.Paragraph == "" {
		missing = append(missing, "paragraph")
	}
	if len(missing) > 0 {
		return s, &IncompleteError{Missing: missing}
	}
	return s, nil
}

// IsEmailShaped reports whether s contains a token@token.token substring.
func IsEmailShaped(s string) bool {
	return emailShape.MatchString(s)
}

// cleanLines splits raw on any newline sequence, strips emphasis markup and
// drops lines that end up empty.
func cleanLines(raw string) []string {
	parts := lineBreak.Split(raw, -1)
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if l := stripEmphasis(p); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// stripEmphasis removes every '*' and every '_' or '-' that is not joining two
// letters or digits, then trims surrounding whitespace. Bullets and
// _emphasis_ disappear while "acme-group.com" and "talent_team@" survive.
func stripEmphasis(line string) string {
	rs := []rune(line)
	var b strings.Builder
	b.Grow(len(line))

	for i, r := range rs {
		switch r {
		case '*':
			continue
		case '_', '-':
			if i > 0 && i < len(rs)-1 && isWordRune(rs[i-1]) && isWordRune(rs[i+1]) {
				b.WriteRune(r)
			}
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// firstEmail returns the first email-shaped substring of line with wrapping
// punctuation and any "label:" or "mailto:" prefix removed.
func firstEmail(line string) string {
	m := emailShape.FindString(line)
	if at := strings.Index(m, "@"); at >= 0 {
		if cut := strings.LastIndexAny(m[:at], ":<([\"'"); cut >= 0 {
			m = m[cut+1:]
		}
	}
	trimmed := strings.TrimRight(m, ">)]\"',;:.")
	if emailShape.MatchString(trimmed) {
		return trimmed
	}
	return m
}

// cutLabel drops a leading "label:" when isLabel accepts the folded label text.
func cutLabel(line string, isLabel func(string) bool) string {
	head, rest, found := strings.Cut(line, ":")
	if !found || !isLabel(foldLabel(head)) {
		return line
	}
	return strings.TrimSpace(rest)
}

func isNameLabel(folded string) bool {
	return nameLabels[folded]
}

func isParagraphLabel(folded string) bool {
	return strings.HasPrefix(folded, "parrafo") || strings.HasPrefix(folded, "paragraph")
}

// foldLabel lower-cases s, removes diacritics and collapses whitespace.
func foldLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.TrimSpace(spaceRun.ReplaceAllString(folded, " "))
}
