package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"pdffusion/pdf"
)

// tempFiles tracks files created for one request so they can be removed together
type tempFiles struct {
	dir   string
	paths []string
}

func newTempFiles(dir string) (*tempFiles, error) {
	if err := os.MkdirAll(dir, DefaultFilePermissions); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &tempFiles{dir: dir}, nil
}

// path reserves a unique path inside the temp directory
func (t *tempFiles) path(prefix string) string {
	p := filepath.Join(t.dir, prefix+"_"+uuid.NewString()+".pdf")
	t.paths = append(t.paths, p)
	return p
}

func (t *tempFiles) cleanup() {
	for _, p := range t.paths {
		os.Remove(p)
	}
}

// save copies an uploaded file to a fresh temp path
func (t *tempFiles) save(file io.Reader, prefix string) (string, error) {
	p := t.path(prefix)
	if err := writeFile(file, p); err != nil {
		return "", err
	}
	return p, nil
}

func writeFile(src io.Reader, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to save input file: %w", err)
	}
	return nil
}

// validatePDFFile checks size and the PDF magic bytes, then rewinds file
func validatePDFFile(file multipart.File, header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("file %s is %s, the limit is %s",
			sanitizeFilename(header.Filename), pdf.FormatBytes(header.Size), pdf.FormatBytes(maxSize))
	}

	buffer := make([]byte, 4)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("failed to read file header: %w", err)
	}
	if !pdf.ValidatePDF(buffer[:n]) {
		return fmt.Errorf("invalid PDF file: header does not match")
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to reset file position: %w", err)
	}
	return nil
}

// sanitizeFilename removes path traversal attempts and dangerous characters
func sanitizeFilename(filename string) string {
	filename = norm.NFC.String(filename)
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' {
			return -1
		}
		return r
	}, filename)
	filename = strings.TrimSpace(filepath.Base(filename))

	if filename == "" || filename == "." {
		filename = "document.pdf"
	}
	return filename
}

// downloadName derives "<original>_<suffix>.pdf" from the uploaded name
func downloadName(original, suffix string) string {
	if original == "" {
		return "document_" + suffix + ".pdf"
	}
	base := sanitizeFilename(original)
	if strings.HasSuffix(strings.ToLower(base), ".pdf") {
		base = base[:len(base)-4]
	}
	return sanitizeFilename(base + "_" + suffix + ".pdf")
}
