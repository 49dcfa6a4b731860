package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"+31 20 123 4567", "+31201234567", true},
		{"0031 20 123 4567", "+31201234567", true},
		{"+1 (415) 555-2671", "+14155552671", true},
		{"020 123 4567", "", false},
		{"(415) 555-2671", "", false},
		{"", "", false},
		{"call me", "", false},
		{"+12", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeE164(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
