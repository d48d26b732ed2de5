package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel_KnownLanguage(t *testing.T) {
	assert.Equal(t, "INVOICE", Label("en", KeyInvoice))
	assert.Equal(t, "ინვოისი", Label("ka", KeyInvoice))
}

func TestLabel_GeorgianFallsBackToEnglish(t *testing.T) {
	// swift/iban have no Georgian entry on purpose
	assert.Equal(t, "SWIFT", Label("ka", KeySwift))
	assert.Equal(t, "IBAN", Label("ka", KeyIBAN))
}

func TestLabel_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "Subtotal", Label("de", KeySubtotal))
	assert.Equal(t, "Subtotal", Label("", KeySubtotal))
}

func TestLabel_UnknownKeyRendersKey(t *testing.T) {
	assert.Equal(t, "no_such_key", Label("en", "no_such_key"))
}

func TestDefaultSubject_ContainsCaseAndNumber(t *testing.T) {
	s := DefaultSubject("en", "INV-000042", "C-2026-17")
	assert.Contains(t, s, "INV-000042")
	assert.Contains(t, s, "C-2026-17")

	ka := DefaultSubject("ka", "INV-000042", "C-2026-17")
	assert.Contains(t, ka, "ინვოისი")
	assert.Contains(t, ka, "INV-000042")
}

func TestDefaultSubject_WithoutNumber(t *testing.T) {
	en := DefaultSubject("en", "", "C-2026-17")
	assert.Equal(t, "Invoice — Case C-2026-17", en)

	ka := DefaultSubject("ka", "", "C-2026-17")
	assert.Equal(t, "ინვოისი — ქეისი C-2026-17", ka)
	assert.NotContains(t, ka, "  ")
}

func TestDefaultBody_ContainsPatient(t *testing.T) {
	b := DefaultBody("en", "C-2026-17", "Nino Beridze", "GeoAssist LLC")
	assert.Contains(t, b, "Nino Beridze")
	assert.Contains(t, b, "C-2026-17")
	assert.Contains(t, b, "GeoAssist LLC")
}
