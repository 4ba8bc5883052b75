package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtFromContentType(t *testing.T) {
	assert.Equal(t, ".jpg", extFromContentType("image/jpeg"))
	assert.Equal(t, ".png", extFromContentType("image/png"))
	assert.Equal(t, ".webp", extFromContentType("image/webp"))
	assert.Equal(t, ".gif", extFromContentType("image/gif"))
	assert.Equal(t, "", extFromContentType("application/pdf"))
}

func TestVoiceExtFromContentType(t *testing.T) {
	assert.Equal(t, ".mp3", voiceExtFromContentType("audio/mpeg"))
	assert.Equal(t, ".wav", voiceExtFromContentType("audio/wave"))
	assert.Equal(t, ".ogg", voiceExtFromContentType("application/ogg"))
	assert.Equal(t, ".m4a", voiceExtFromContentType("video/mp4"))
	assert.Equal(t, "", voiceExtFromContentType("text/plain"))
}
