package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndTranslate(t *testing.T) {
	require.NoError(t, Load("tr"))
	assert.Equal(t, "Sunucu hatası", T("internal_error", "fallback"))
	assert.Equal(t, "fallback", T("unknown_code", "fallback"))

	require.NoError(t, Load("en"))
	assert.Equal(t, "Internal server error", T("internal_error", "fallback"))
}

func TestLoadUnknownLocale(t *testing.T) {
	assert.Error(t, Load("xx"))
}
