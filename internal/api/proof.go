package api

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"upi-balance-go/internal/models"

	"github.com/gabriel-vasile/mimetype"
)

var allowedProofTypes = []string{"image/png", "image/jpeg"}

// NewProofImage encodes raw image bytes as a data-URI proof image.
// Only PNG and JPEG content is accepted, whatever the file name says.
func NewProofImage(fileName string, data []byte) (models.ProofImage, error) {
	if fileName == "" {
		return models.ProofImage{}, fmt.Errorf("proof image file name cannot be empty")
	}
	if len(data) == 0 {
		return models.ProofImage{}, fmt.Errorf("proof image %s is empty", fileName)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedProofTypes...) {
		return models.ProofImage{}, fmt.Errorf("proof image %s has unsupported type %s", fileName, mt.String())
	}

	return models.ProofImage{
		FileName:   fileName,
		Base64Data: "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// LoadProofImage reads path from disk and wraps it with NewProofImage
func LoadProofImage(path string) (models.ProofImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ProofImage{}, fmt.Errorf("unable to read proof image: %w", err)
	}
	return NewProofImage(filepath.Base(path), data)
}
