package services

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal valid PNG header, enough for content sniffing.
var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}

func TestEncodeAttachment(t *testing.T) {
	att, err := EncodeAttachment(FileUpload{Name: "foto.png", Content: pngBytes})

	require.NoError(t, err)
	assert.Equal(t, "foto.png", att.Name)
	assert.True(t, strings.HasPrefix(att.Data, "data:image/png;base64,"))

	encoded := strings.TrimPrefix(att.Data, "data:image/png;base64,")
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, decoded)
}

func TestEncodeAttachment_SniffsUnknownContent(t *testing.T) {
	att, err := EncodeAttachment(FileUpload{Name: "notas.txt", Content: []byte("linha 1\nlinha 2")})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(att.Data, "data:text/plain"))
}

func TestEncodeAttachment_MissingName(t *testing.T) {
	_, err := EncodeAttachment(FileUpload{Content: pngBytes})
	assert.Error(t, err)
}

func TestEncodeAttachment_EmptyContent(t *testing.T) {
	_, err := EncodeAttachment(FileUpload{Name: "vazio.pdf"})
	assert.Error(t, err)
}

func TestEncodeAttachments_PreservesOrder(t *testing.T) {
	atts, err := EncodeAttachments([]FileUpload{
		{Name: "primeiro.png", Content: pngBytes},
		{Name: "segundo.txt", Content: []byte("conteúdo")},
	})

	require.NoError(t, err)
	require.Len(t, atts, 2)
	assert.Equal(t, "primeiro.png", atts[0].Name)
	assert.Equal(t, "segundo.txt", atts[1].Name)
}

func TestEncodeAttachments_FailureAbortsBatch(t *testing.T) {
	atts, err := EncodeAttachments([]FileUpload{
		{Name: "ok.png", Content: pngBytes},
		{Name: "quebrado.pdf"},
	})

	assert.Error(t, err)
	assert.Nil(t, atts, "no partial batch on failure")
}

func TestEncodeAttachments_Empty(t *testing.T) {
	atts, err := EncodeAttachments(nil)

	require.NoError(t, err)
	assert.Empty(t, atts)
}
