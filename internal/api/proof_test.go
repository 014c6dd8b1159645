package api

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

func TestNewProofImage(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		wantPrefix string
		wantErr    bool
	}{
		{"png", pngHeader, "data:image/png;base64,", false},
		{"jpeg", jpegHeader, "data:image/jpeg;base64,", false},
		{"text", []byte("definitely not an image"), "", true},
		{"empty", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewProofImage("proof.bin", tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "proof.bin", img.FileName)
			assert.True(t, strings.HasPrefix(img.Base64Data, tt.wantPrefix), img.Base64Data)

			// the submission path strips exactly the header it added
			decoded, err := base64.StdEncoding.DecodeString(stripDataURI(img.Base64Data))
			require.NoError(t, err)
			assert.Equal(t, tt.data, decoded)
		})
	}
}

func TestLoadProofImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	img, err := LoadProofImage(path)
	require.NoError(t, err)
	assert.Equal(t, "receipt.png", img.FileName)

	_, err = LoadProofImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
