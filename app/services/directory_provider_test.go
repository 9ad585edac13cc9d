package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPhones(t *testing.T) {
	text := "Call us at (512) 555-0101 or 512.555.0102, fax 512-555-0103"
	phones := ExtractPhones(text)
	assert.Equal(t, []string{"(512) 555-0101", "512.555.0102", "512-555-0103"}, phones)
}

func TestNormalizePhones(t *testing.T) {
	t.Run("formats ten digit numbers", func(t *testing.T) {
		got := NormalizePhones([]string{"512-555-0101", "(512) 555-0102"})
		assert.Equal(t, "(512) 555-0101; (512) 555-0102", got)
	})

	t.Run("deduplicates", func(t *testing.T) {
		got := NormalizePhones([]string{"512-555-0101", "(512) 555-0101", "512.555.0101"})
		assert.Equal(t, "(512) 555-0101", got)
	})

	t.Run("passes through odd lengths", func(t *testing.T) {
		got := NormalizePhones([]string{"555-0101"})
		assert.Equal(t, "555-0101", got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", NormalizePhones(nil))
	})
}

func TestExtractState(t *testing.T) {
	t.Run("finds state abbreviation", func(t *testing.T) {
		assert.Equal(t, "TX", ExtractState("Acme Plumbing, Austin, TX 78701"))
	})

	t.Run("ignores lowercase and embedded pairs", func(t *testing.T) {
		assert.Equal(t, "", ExtractState("texas plumbing in austin"))
	})

	t.Run("first match wins", func(t *testing.T) {
		assert.Equal(t, "CA", ExtractState("CA office, formerly NY"))
	})
}
