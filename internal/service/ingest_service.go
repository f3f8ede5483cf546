package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"masarif/internal/errs"
)

// IngestService turns uploaded documents into text the extraction services
// can work with. PDFs go through direct text extraction first; scanned PDFs
// and images fall back to the Vision model.
type IngestService struct {
	vision VisionExtractor
	logger *zap.Logger
}

func NewIngestService(vision VisionExtractor, logger *zap.Logger) *IngestService {
	return &IngestService{
		vision: vision,
		logger: logger,
	}
}

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// ExtractText extracts text from an image or PDF file.
func (s *IngestService) ExtractText(ctx context.Context, filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if !supportedExtensions[ext] {
		return "", errs.NewUnsupportedFile(fmt.Sprintf("%s (supported: jpg, jpeg, png, pdf)", ext))
	}

	var (
		text   string
		method string
		err    error
	)

	if ext == ".pdf" {
		method = "go-fitz"
		text, err = s.extractTextFromPDF(filePath)
		if err == nil && text == "" {
			// Scanned PDF with no text layer. Let the Vision model read it.
			method = "vision"
			text, err = s.vision.ExtractTextFromImage(ctx, filePath)
		}
	} else {
		method = "vision"
		text, err = s.vision.ExtractTextFromImage(ctx, filePath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errs.NewExtractionFailure("no text extracted from document", "", nil)
	}

	s.logger.Info("Document text extracted",
		zap.String("file", filePath),
		zap.String("method", method),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}

func (s *IngestService) extractTextFromPDF(pdfPath string) (string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			s.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.String("file", pdfPath),
				zap.Error(err),
			)
			continue
		}
		if pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	return strings.TrimSpace(textBuilder.String()), nil
}

// ExtractTextFromUpload spools an uploaded document to a temp file and
// extracts its text. The extension is derived from the declared content type.
func (s *IngestService) ExtractTextFromUpload(ctx context.Context, reader io.Reader, contentType string) (string, error) {
	ext, err := extensionForContentType(contentType)
	if err != nil {
		return "", err
	}

	path, cleanup, err := spoolToTemp(reader, ext)
	if err != nil {
		return "", err
	}
	defer cleanup()

	return s.ExtractText(ctx, path)
}

// PDFInfo describes an uploaded PDF without extracting its contents.
type PDFInfo struct {
	Pages    int               `json:"pages"`
	HasText  bool              `json:"has_text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// InspectPDF reports page count, metadata, and whether the PDF carries a
// text layer (scanned documents do not).
func (s *IngestService) InspectPDF(reader io.Reader) (*PDFInfo, error) {
	path, cleanup, err := spoolToTemp(reader, ".pdf")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	doc, err := fitz.New(path)
	if err != nil {
		return nil, errs.NewUnsupportedFile(fmt.Sprintf("not a readable PDF: %v", err))
	}
	defer doc.Close()

	info := &PDFInfo{
		Pages:    doc.NumPage(),
		Metadata: map[string]string{},
	}

	for key, value := range doc.Metadata() {
		if value != "" {
			info.Metadata[key] = value
		}
	}

	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err == nil && strings.TrimSpace(text) != "" {
			info.HasText = true
			break
		}
	}

	return info, nil
}

func extensionForContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "application/pdf":
		return ".pdf", nil
	default:
		return "", errs.NewUnsupportedFile(contentType)
	}
}

func spoolToTemp(reader io.Reader, ext string) (string, func(), error) {
	tmpFile, err := os.CreateTemp("", "ingest-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmpFile, reader); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", nil, fmt.Errorf("failed to spool upload: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return "", nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	return tmpFile.Name(), func() { os.Remove(tmpFile.Name()) }, nil
}
