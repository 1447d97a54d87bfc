package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOfferID(t *testing.T) {
	id, ok := ParseOfferID(" 07/2024 ")
	assert.True(t, ok)
	assert.Equal(t, 7, id.Seq)
	assert.Equal(t, 2024, id.Year)

	_, ok = ParseOfferID("7-2024")
	assert.False(t, ok)
	_, ok = ParseOfferID("07/24")
	assert.False(t, ok)
}

func TestOfferIDStringPadsBelowOneHundred(t *testing.T) {
	assert.Equal(t, "01/2024", OfferID{Seq: 1, Year: 2024}.String())
	assert.Equal(t, "99/2024", OfferID{Seq: 99, Year: 2024}.String())
	assert.Equal(t, "100/2024", OfferID{Seq: 100, Year: 2024}.String())
}

func TestNextOfferIDIsScopedByYear(t *testing.T) {
	existing := []string{"01/2024", "05/2024", "09/2023", "garbage"}
	assert.Equal(t, OfferID{Seq: 6, Year: 2024}, NextOfferID(existing, 2024))
	assert.Equal(t, OfferID{Seq: 10, Year: 2023}, NextOfferID(existing, 2023))
	assert.Equal(t, OfferID{Seq: 1, Year: 2025}, NextOfferID(existing, 2025))
}

func TestClassGroupPattern(t *testing.T) {
	assert.True(t, ClassGroupPattern.MatchString("01.28.2024"))
	assert.False(t, ClassGroupPattern.MatchString("1.28.2024"))
	assert.False(t, ClassGroupPattern.MatchString("01.29.2024"))
	assert.False(t, ClassGroupPattern.MatchString("01.28.24"))
}
