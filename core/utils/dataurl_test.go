package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURL(t *testing.T) {
	data, contentType, err := DecodeDataURL("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte("hello"), data)

	for _, bad := range []string{
		"",
		"hello",
		"data:image/png,aGVsbG8=",
		"data:image/png;base64",
		"data:image/png;base64,%%%",
	} {
		_, _, err := DecodeDataURL(bad)
		assert.ErrorIs(t, err, ErrInvalidDataURL, bad)
	}
}

func TestExtensionForContentType(t *testing.T) {
	assert.Equal(t, ".jpg", ExtensionForContentType("image/jpeg"))
	assert.Equal(t, ".png", ExtensionForContentType("image/png"))
	assert.Equal(t, ".bin", ExtensionForContentType("application/pdf"))
}

func TestGenerateCode(t *testing.T) {
	a := GenerateCode()
	b := GenerateCode()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}
