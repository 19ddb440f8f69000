package isbn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	assert.True(t, Valid("9787111407720"))
	assert.True(t, Valid("978-7-111-40772-0"))
	assert.True(t, Valid("9780306406157"))
	assert.False(t, Valid("9787111407721"))
	assert.False(t, Valid("978-7-111-40772-1"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("0306406152"))
	assert.False(t, Valid("97871114077ab"))
	assert.False(t, Valid("1237111407720"))
}

func TestCheckDigit(t *testing.T) {
	assert.Equal(t, 0, CheckDigit("978711140772"))
	assert.Equal(t, 7, CheckDigit("978030640615"))
	assert.Equal(t, -1, CheckDigit("97871114077"))
	assert.Equal(t, -1, CheckDigit("97871114077x"))
}

func TestHyphenate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"9787111407720", "978-7-111-40772-0"},
		{"9787040396638", "978-7-04-039663-8"},
		{"9784062748681", "978-4-06-274868-1"},
		{"9780306406157", "978-0-306-40615-7"},
		{"9780262033848", "978-0-262-03384-8"},
		{"9781118063330", "978-1-118-06333-0"},
		{"9783161484100", "978-3-16-148410-0"},
		{"9782070368228", "978-2-07-036822-8"},
		{"9791090636071", "979-10-90636-07-1"},
		{"9791155811238", "979-11-5581-123-8"},
		{"9798221023458", "979-8-221-02345-8"},
	}
	for _, tc := range cases {
		got, err := Hyphenate(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := Hyphenate("9787111407721")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestHyphenateUnassigned(t *testing.T) {
	// 979-0 ist ISMN, 978-66 und 979-8-1 sind nicht vergeben.
	for _, in := range []string{"9790000000001", "9786600000008", "9798111111111"} {
		require.True(t, Valid(in), in)
		_, err := Hyphenate(in)
		assert.ErrorIs(t, err, ErrUnknownRange, in)
	}
}

func TestRangeTables(t *testing.T) {
	for key, spec := range registrantSpec {
		rules, err := parseRanges(spec)
		require.NoError(t, err, key)
		_, group, _ := strings.Cut(key, "-")
		rest := 9 - len(group)
		for i, r := range rules {
			assert.Less(t, r.length, rest, "%s %s", key, r.lo)
			if i > 0 {
				assert.Greater(t, r.lo, rules[i-1].hi, "%s overlaps at %s", key, r.lo)
			}
		}
	}

	_, err := parseRanges("00-199")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	for _, in := range []string{"9787111407720", "9780262033848", "9781118063330", "9791155811238", "9798221023458"} {
		h, err := Hyphenate(in)
		require.NoError(t, err)
		assert.Equal(t, in, Normalize(h))

		again, err := Hyphenate(h)
		require.NoError(t, err)
		assert.Equal(t, h, again)
	}
}
