package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "******", MaskSecret("abcdef"))
	assert.Equal(t, "ab...hi", MaskSecret("abcdefghi"))
	assert.Equal(t, "0f...9a", MaskSecret("0f1e2d3c4b5a69788a9a"))
}

func TestGetLoggerIsShared(t *testing.T) {
	a := GetLogger()
	b := GetLogger()
	assert.NotNil(t, a)
	assert.Same(t, a, b)
}
