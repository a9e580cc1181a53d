package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCardNumber(t *testing.T) {
	assert.NoError(t, ValidateCardNumber("0000 0000 0000 0000"))
	assert.NoError(t, ValidateCardNumber("2200-1234-5678-9012"))
	assert.Error(t, ValidateCardNumber(""))
	assert.Error(t, ValidateCardNumber("1234"))
	assert.Error(t, ValidateCardNumber("1234 5678 9012 abcd"))
}

func TestValidatePhoneNumber(t *testing.T) {
	assert.NoError(t, ValidatePhoneNumber("+7 (000) 000-00-00"))
	assert.NoError(t, ValidatePhoneNumber("89991234567"))
	assert.Error(t, ValidatePhoneNumber(""))
	assert.Error(t, ValidatePhoneNumber("7+999"))
	assert.Error(t, ValidatePhoneNumber("call me"))
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount(" 1500 ")
	require.NoError(t, err)
	assert.EqualValues(t, 1500, v)

	_, err = ParseAmount("15.5")
	assert.Error(t, err)
	_, err = ParseAmount("0")
	assert.Error(t, err)
	_, err = ParseAmount("-3")
	assert.Error(t, err)
}

func TestNormalizeSpaces(t *testing.T) {
	assert.Equal(t, "1111 2222", NormalizeSpaces("  1111   2222 \n"))
}
