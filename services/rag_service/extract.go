package rag_service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/ledongthuc/pdf"
)

// MinTextLength is the minimum stripped text length below which a PDF is
// treated as image-only and re-extracted through OCR.
const MinTextLength = 200

// OCRDPI is the rasterization resolution used for the OCR path.
const OCRDPI = 150

type DocumentExtractor struct {
	logger *slog.Logger
}

func NewDocumentExtractor(logger *slog.Logger) *DocumentExtractor {
	return &DocumentExtractor{
		logger: logger,
	}
}

// ExtractText converts a PDF to plain text. It first reads the embedded
// text layer; scanned documents without a usable text layer fall back to
// per-page OCR.
func (e *DocumentExtractor) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF file: %w", err)
	}

	text, err := e.ExtractTextFromPDF(data)
	if err != nil {
		return "", err
	}

	if len(strings.TrimSpace(text)) < MinTextLength {
		e.logger.Info("Extracted text below minimum length, falling back to OCR",
			slog.String("file", filepath.Base(pdfPath)),
			slog.Int("text_length", len(strings.TrimSpace(text))))
		return e.ExtractTextOCR(ctx, pdfPath)
	}

	return text, nil
}

// ExtractTextFromPDF reads the text layer of a PDF, page by page.
func (e *DocumentExtractor) ExtractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Error("Failed to create PDF reader",
			slog.String("error", err.Error()),
			slog.Int("data_size", len(data)))
		return "", fmt.Errorf("failed to create PDF reader: %v", err)
	}

	totalPage := reader.NumPage()
	e.logger.Debug("Starting PDF text extraction",
		slog.Int("total_pages", totalPage))

	var pageTexts []string
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			e.logger.Warn("Null page encountered",
				slog.Int("page_number", pageIndex))
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Error("Failed to extract text from page",
				slog.Int("page_number", pageIndex),
				slog.String("error", err.Error()))
			return "", fmt.Errorf("failed to extract text from page %d: %v", pageIndex, err)
		}

		if text != "" {
			pageTexts = append(pageTexts, text)
		}
	}

	return strings.Join(pageTexts, "\n"), nil
}

// ExtractTextOCR rasterizes every page of the PDF and runs each page image
// through OCR, joining page texts with newlines. Requires pdftoppm and
// tesseract on the host, the same external tools docconv relies on.
func (e *DocumentExtractor) ExtractTextOCR(ctx context.Context, pdfPath string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "krishisaarthi-ocr-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory for OCR: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-r", strconv.Itoa(OCRDPI), "-png", pdfPath, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to rasterize PDF for OCR: %v: %s", err, strings.TrimSpace(string(out)))
	}

	pageImages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to list rasterized pages: %w", err)
	}
	if len(pageImages) == 0 {
		return "", fmt.Errorf("no pages rasterized from PDF")
	}
	sort.Strings(pageImages)

	var pageTexts []string
	for i, imagePath := range pageImages {
		f, err := os.Open(imagePath)
		if err != nil {
			return "", fmt.Errorf("failed to open page image %d: %w", i+1, err)
		}

		result, err := docconv.Convert(f, "image/png", true)
		f.Close()
		if err != nil {
			e.logger.Error("OCR failed on page",
				slog.Int("page_number", i+1),
				slog.String("error", err.Error()))
			return "", fmt.Errorf("OCR failed on page %d: %v", i+1, err)
		}

		pageTexts = append(pageTexts, result.Body)
	}

	e.logger.Info("OCR extraction complete",
		slog.String("file", filepath.Base(pdfPath)),
		slog.Int("total_pages", len(pageImages)))

	return strings.Join(pageTexts, "\n"), nil
}
