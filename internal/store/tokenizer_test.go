package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTrigrams(t *testing.T) {
	assert.Equal(t, "abc", BuildTrigrams("abc"))
	assert.Equal(t, "abc bcd", BuildTrigrams("abcd"))
	assert.Equal(t, "tok oke ken ens", BuildTrigrams("tokens"))
}

func TestBuildMatchQuery(t *testing.T) {
	assert.Equal(t, `"abc" "bcd"`, BuildMatchQuery("abcd"))
	assert.Equal(t, `"a.b"`, BuildMatchQuery("a.b"))
	assert.Equal(t, `"a-b" "-b."`, BuildMatchQuery("a-b."))
	assert.Equal(t, `"ab"`, BuildMatchQuery("ab"))
}

func TestBuildTrigramsShortInput(t *testing.T) {
	assert.Equal(t, "", BuildTrigrams(""))
	assert.Equal(t, "a", BuildTrigrams("a"))
	assert.Equal(t, "ab", BuildTrigrams("ab"))
}

func TestBuildTrigramsMultibyte(t *testing.T) {
	// Windows slide over runes, not bytes.
	assert.Equal(t, "hél élo", BuildTrigrams("hélo"))
}

func TestBuildDocText(t *testing.T) {
	got := BuildDocText("abc", "xy", "md")
	assert.Equal(t, "abc xy md", got)
}
