//go:build ocr

// Package ocr recognizes text on scanned PDF pages. It wraps the Tesseract
// engine via gosseract and plugs into the extraction pipeline as a fallback
// text provider for pages with no embedded text layer.
//
// Tesseract must be installed on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// OCR support is compiled in with the "ocr" build tag; without it the
// package exposes the same API with all operations returning
// ErrOCRNotEnabled.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrOCRNotEnabled is never returned by this build; it exists so callers can
// test for it without caring which implementation was compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client wraps a Tesseract session.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client. Close it when no longer needed to release the
// Tesseract handle.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguage sets the recognition language(s). Multiple languages join with
// "+" ("eng+fra"). Default is "eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// RecognizeImage runs OCR on encoded image data (PNG, TIFF, JPEG).
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Provider recognizes the page images of a scanned PDF. It implements the
// extraction pipeline's TextProvider: given a source path and page number it
// pulls that page's embedded images via pdfcpu and runs each through
// Tesseract.
type Provider struct {
	client *Client

	mu     sync.Mutex
	path   string
	pdfctx *pdfcpumodel.Context
}

// NewProvider creates a provider with its own OCR client. An empty lang
// keeps the Tesseract default.
func NewProvider(lang string) (*Provider, error) {
	client, err := New()
	if err != nil {
		return nil, err
	}
	if lang != "" {
		if err := client.SetLanguage(lang); err != nil {
			client.Close()
			return nil, err
		}
	}
	return &Provider{client: client}, nil
}

// Close releases the underlying OCR client.
func (p *Provider) Close() error {
	return p.client.Close()
}

// PageText recognizes all images on one page and joins the results in object
// order. Pages without images return empty text.
func (p *Provider) PageText(ctx context.Context, path string, pageNum int) (string, error) {
	pdfctx, err := p.contextFor(path)
	if err != nil {
		return "", err
	}

	images, err := pdfcpu.ExtractPageImages(pdfctx, pageNum, false)
	if err != nil {
		return "", fmt.Errorf("page %d images: %w", pageNum, err)
	}
	if len(images) == 0 {
		return "", nil
	}

	objNrs := make([]int, 0, len(images))
	for nr := range images {
		objNrs = append(objNrs, nr)
	}
	sort.Ints(objNrs)

	var parts []string
	for _, nr := range objNrs {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		data, err := io.ReadAll(images[nr])
		if err != nil {
			continue
		}
		text, err := p.client.RecognizeImage(data)
		if err != nil || text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n"), nil
}

// contextFor parses the PDF once per source path and caches the result for
// subsequent pages of the same document.
func (p *Provider) contextFor(path string) (*pdfcpumodel.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pdfctx != nil && p.path == path {
		return p.pdfctx, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pdfctx, err := api.ReadValidateAndOptimize(f, pdfcpumodel.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	p.path = path
	p.pdfctx = pdfctx
	return pdfctx, nil
}
