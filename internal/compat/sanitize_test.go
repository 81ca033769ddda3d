package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const unbalancedReport = "<div><h3>Summary</h3><p>Strong React match.</p></div></div><h3>Gaps</h3><p>Needs Node.js depth.</p>"

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  ", ""},
		{"plain text", "just text", "just text"},
		{"keeps allowed", "<h3>Plan</h3><p>Do <em>this</em></p>", "<h3>Plan</h3><p>Do <em>this</em></p>"},
		{"drops script", "<p>a</p><script>steal()</script>", "<p>a</p>"},
		{"unwraps div", "<div class=\"x\"><p>a</p></div>", "<p>a</p>"},
		{"strips attributes", "<p style=\"color:red\" onclick=\"x\">a</p>", "<p>a</p>"},
		{"unsafe link", "<a href=\"javascript:void(0)\">x</a>", "x"},
		{"safe link", "<a href=\"https://go.dev\" onclick=\"x\">Go</a>", "<a href=\"https://go.dev\" rel=\"noopener noreferrer\">Go</a>"},
		{"drops iframe", "<iframe src=\"https://evil\"></iframe><p>ok</p>", "<p>ok</p>"},
		{"stray closing div", unbalancedReport, "<h3>Summary</h3><p>Strong React match.</p><h3>Gaps</h3><p>Needs Node.js depth.</p>"},
		{"stray closing body", "<p>a</p></body></html><p>b</p>", "<p>a</p><p>b</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeHTML(tt.in))
		})
	}
}

func TestStripHTML(t *testing.T) {
	in := "<h3>Roadmap</h3><ul><li>Week 1:   <strong>streams</strong></li><li>Week 2</li></ul><p>Done</p>"
	assert.Equal(t, "Roadmap\n- Week 1: streams\n- Week 2\nDone", StripHTML(in))
	assert.Equal(t, "", StripHTML(""))
	assert.Equal(t, "a < b", StripHTML("a &lt; b"))
}

func TestStripHTMLKeepsContentAfterStrayEndTag(t *testing.T) {
	assert.Equal(t, "Summary\nStrong React match.\nGaps\nNeeds Node.js depth.", StripHTML(unbalancedReport))
}
