package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDeterministic(t *testing.T) {
	text := "the same document, byte for byte"
	assert.Equal(t, Fingerprint(text), Fingerprint(text))
}

func TestFingerprintSensitivity(t *testing.T) {
	assert.NotEqual(t, Fingerprint("document a"), Fingerprint("document b"))
	assert.NotEqual(t, Fingerprint("document"), Fingerprint("document "))
}

func TestFingerprintFormat(t *testing.T) {
	fp := Fingerprint("")
	assert.Len(t, fp, 64)
	// SHA-256 of the empty string is a fixed vector.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", fp)
}
