package sanitize

import (
	"regexp"
	"strings"
)

// Sanitizer strips markup from free-text input before persistence. Pure
// string -> string, so services can treat it as a black-box collaborator.
type Sanitizer interface {
	Clean(s string) string
}

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	spacePattern  = regexp.MustCompile(`[ \t]+`)
	entityReplace = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

type htmlStripper struct{}

// NewHTMLStripper returns the default sanitizer: removes tags, decodes the
// common entities, collapses runs of whitespace.
func NewHTMLStripper() Sanitizer {
	return htmlStripper{}
}

func (htmlStripper) Clean(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = entityReplace.Replace(s)
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
