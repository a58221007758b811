//go:build !ocr

// Package ocr recognizes text on scanned PDF pages.
//
// This is the stub used when the "ocr" build tag is not set: every operation
// returns ErrOCRNotEnabled. Rebuild with
//
//	go build -tags ocr
//
// to compile in the Tesseract-backed implementation, which requires
// Tesseract installed on the system.
package ocr

import (
	"context"
	"errors"
)

// ErrOCRNotEnabled is returned when OCR is used but support was not compiled
// in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is a stub OCR client; every operation fails with ErrOCRNotEnabled.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// SetLanguage returns ErrOCRNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// RecognizeImage returns ErrOCRNotEnabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// Provider is a stub page-text provider.
type Provider struct{}

// NewProvider returns ErrOCRNotEnabled.
func NewProvider(lang string) (*Provider, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}

// PageText returns ErrOCRNotEnabled.
func (p *Provider) PageText(ctx context.Context, path string, pageNum int) (string, error) {
	return "", ErrOCRNotEnabled
}
