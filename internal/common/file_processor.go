package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"prepscore/internal/errors"
	"prepscore/internal/utils"

	"github.com/ledongthuc/pdf"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger      *errors.Logger
	maxFileSize int64
}

// NewFileProcessor creates a new file processor instance. maxFileSize of 0
// disables the size limit.
func NewFileProcessor(logger *errors.Logger, maxFileSize int64) *FileProcessor {
	return &FileProcessor{logger: logger, maxFileSize: maxFileSize}
}

// ReadFile reads a file as text. PDF files are converted page by page.
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	if utils.IsPDFFile(filename) {
		return fp.readPDF(filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return string(content), nil
}

// readPDF extracts the plain text of every readable page. Pages that fail
// to decode are skipped; a PDF without any text yields an empty string.
func (fp *FileProcessor) readPDF(filename string) (string, error) {
	f, r, err := pdf.Open(filename)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodePDFExtraction,
			fmt.Sprintf("Cannot open PDF: %s", filename), err)
	}
	defer func() { _ = f.Close() }()

	var sb strings.Builder
	skipped := 0
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			skipped++
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	if fp.logger != nil {
		if skipped > 0 {
			fp.logger.Warn("Skipped unreadable PDF pages", "filename", filename, "pages", skipped)
		}
		if strings.TrimSpace(sb.String()) == "" {
			fp.logger.Warn("PDF contains no extractable text", "filename", filename)
		}
	}

	return sb.String(), nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateAndReadFiles validates and reads multiple input files
func (fp *FileProcessor) ValidateAndReadFiles(filenames ...string) ([]string, error) {
	contents := make([]string, len(filenames))

	for i, filename := range filenames {
		if err := utils.ValidateInputFile(filename, fp.maxFileSize); err != nil {
			return nil, errors.NewValidationError("INVALID_INPUT_FILE",
				fmt.Sprintf("Invalid file %s", filename), err)
		}

		if !utils.IsTextFile(filename) && !utils.IsPDFFile(filename) {
			if fp.logger != nil {
				fp.logger.Warn("File may not be a text file", "filename", filename)
			} else {
				fmt.Fprintf(os.Stderr, "Warning: %s may not be a text file\n", filename)
			}
		}

		content, err := fp.ReadFile(filename)
		if err != nil {
			return nil, err
		}

		contents[i] = content
	}

	return contents, nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
