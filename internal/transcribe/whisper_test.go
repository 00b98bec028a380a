package transcribe_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prepdrill/prepdrill/internal/transcribe"
)

func TestBasicFeedback(t *testing.T) {
	tests := map[string]struct {
		transcript string
		want       string
	}{
		"a very short answer should ask for more detail": {
			transcript: "I did some work.",
			want:       "more detailed answers",
		},
		"a very long answer should ask for concision": {
			transcript: strings.Repeat("word ", 120),
			want:       "more concise",
		},
		"mentioning a project should be praised": {
			transcript: strings.Repeat("filler ", 20) + "I delivered the project on time with my colleagues.",
			want:       "credibility",
		},
		"anything else should get encouragement": {
			transcript: strings.Repeat("steady answer text here ", 5),
			want:       "Keep practicing",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Contains(t, transcribe.BasicFeedback(tt.transcript), tt.want)
		})
	}
}
