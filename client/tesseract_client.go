package client

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// TesseractClient runs Tesseract OCR over page images of scanned reports.
type TesseractClient struct {
	dataPath  string
	languages []string
}

func NewTesseractClient(dataPath string, languages ...string) *TesseractClient {
	if len(languages) == 0 {
		languages = []string{"ara", "eng"}
	}
	return &TesseractClient{
		dataPath:  dataPath,
		languages: languages,
	}
}

// ExtractTextFromImage encodes img as PNG and returns the recognized text.
func (tc *TesseractClient) ExtractTextFromImage(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image to PNG: %w", err)
	}
	return tc.ExtractTextFromBytes(buf.Bytes())
}

// ExtractTextFromBytes runs OCR over an encoded image.
func (tc *TesseractClient) ExtractTextFromBytes(data []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		client.SetTessdataPrefix(tc.dataPath)
	}
	if err := client.SetLanguage(tc.languages...); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return text, nil
}
