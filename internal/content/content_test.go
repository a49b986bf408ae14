package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain string", "hello world", "hello world"},
		{"paragraphs", "<p>First</p><p>Second</p>", "First Second"},
		{"inline marks", "<p>Some <strong>bold</strong> and <em>italic</em></p>", "Some bold and italic"},
		{"line breaks", "one<br>two<br/>three", "one two three"},
		{"scripts dropped", "<p>safe</p><script>alert(1)</script>", "safe"},
		{"entities decoded", "<p>Fish &amp; chips</p>", "Fish & chips"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   "))
	assert.True(t, IsBlank("<p></p>"))
	assert.True(t, IsBlank("<p> </p><p><br></p>"))
	assert.False(t, IsBlank("<p>x</p>"))
	assert.False(t, IsBlank(`<p><img src="https://cdn.example.com/a.png"></p>`))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "The quick…", Truncate("The quick brown fox", 12))
	assert.Equal(t, "Ünïcödé…", Truncate("Ünïcödé strings here", 9))
	assert.Equal(t, "", Truncate("anything", 0))
}
