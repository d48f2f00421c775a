package usecase

import (
	"bytes"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
)

const sniffLen = 3072

const pdfMIME = "application/pdf"

var imageMIMEs = []string{"image/jpeg", "image/png", "image/webp"}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// sniff reads the head of body to detect its type and returns a reader replaying the full content.
func sniff(body io.Reader) (*mimetype.MIME, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, nil, err
	}
	head = head[:n]
	return mimetype.Detect(head), io.MultiReader(bytes.NewReader(head), body), nil
}

func declaredType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// checkPDF accepts only uploads that both declare and contain a PDF.
func checkPDF(u Upload) (io.Reader, error) {
	if u.Body == nil {
		return nil, domainErrors.Invalid("file", "No file provided")
	}
	if declaredType(u.ContentType) != pdfMIME {
		return nil, domainErrors.Invalid("file", "Only PDF files are allowed")
	}
	mt, body, err := sniff(u.Body)
	if err != nil {
		return nil, err
	}
	if !mt.Is(pdfMIME) {
		return nil, domainErrors.Invalid("file", "Only PDF files are allowed")
	}
	return body, nil
}

// checkImage accepts JPEG, PNG and WebP content regardless of the declared type.
func checkImage(field string, u Upload) (string, io.Reader, error) {
	if u.Body == nil {
		return "", nil, domainErrors.Invalid(field, "image is required")
	}
	mt, body, err := sniff(u.Body)
	if err != nil {
		return "", nil, err
	}
	for _, allowed := range imageMIMEs {
		if mt.Is(allowed) {
			return allowed, body, nil
		}
	}
	return "", nil, domainErrors.Invalid(field, "only JPEG, PNG or WebP images are allowed")
}
