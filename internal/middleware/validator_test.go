package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSpecID(t *testing.T) {
	assert.NoError(t, ValidateSpecID("eip-1559"))
	assert.NoError(t, ValidateSpecID("eip-4844"))

	assert.Error(t, ValidateSpecID(""))
	assert.Error(t, ValidateSpecID("eip 1559"))
	assert.Error(t, ValidateSpecID("eip/1559"))
}

func TestValidateImplName(t *testing.T) {
	assert.NoError(t, ValidateImplName("go-ethereum"))
	assert.NoError(t, ValidateImplName("prysm_v5"))

	assert.Error(t, ValidateImplName(""))
	assert.Error(t, ValidateImplName("bad name"))
}

func TestValidateRunID(t *testing.T) {
	assert.NoError(t, ValidateRunID("a1b2c3d4-1111-2222-3333-444455556666-eip-1559"))

	assert.Error(t, ValidateRunID(""))
	assert.Error(t, ValidateRunID("not-a-run-id"))
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://raw.githubusercontent.com/ethereum/EIPs/master/EIPS/eip-1559.md"))

	assert.Error(t, ValidateURL(""))
	assert.Error(t, ValidateURL("ftp://example.com/x"))
	assert.Error(t, ValidateURL("http://localhost:8080/x"))
	assert.Error(t, ValidateURL("http://192.168.1.5/x"))
}

func TestValidateLimitAndDays(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 100, ValidateLimit(5000))
	assert.Equal(t, 33, ValidateLimit(33))

	assert.Equal(t, 7, ValidateDays(-1))
	assert.Equal(t, 365, ValidateDays(5000))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello\x00 "))
	assert.Equal(t, "a\tb", SanitizeString("a\tb\x01"))
}
