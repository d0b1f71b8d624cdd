package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanStripsMarkup(t *testing.T) {
	s := NewHTMLStripper()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Harbor Cafe", "Harbor Cafe"},
		{"tags removed", "Best <b>coffee</b> in <i>town</i>", "Best coffee in town"},
		{"script tags removed", `Cafe <script>alert("x")</script>`, `Cafe alert("x")`},
		{"entities decoded", "Fish &amp; Chips &nbsp; daily", "Fish & Chips daily"},
		{"whitespace collapsed", "  too \t many   spaces  ", "too many spaces"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Clean(tt.in))
		})
	}
}
