package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

var (
	// ErrUnsupportedType is returned for anything other than PDF, DOCX or plain text.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEmptyText is returned when a supported file yields no text.
	ErrEmptyText = errors.New("no text could be extracted")
	// ErrUnreadable is returned when a supported file cannot be parsed.
	ErrUnreadable = errors.New("document could not be read")
)

// ResumeData is the extracted resume text and its original file name.
type ResumeData struct {
	Text     string `json:"text"`
	FileName string `json:"fileName"`
}

// SupportedExtensions lists the accepted upload extensions.
var SupportedExtensions = []string{".pdf", ".docx", ".txt"}

// ExtractTextFromBytes extracts text from an in-memory payload.
// Detection order: declared MIME type, file extension, then content sniffing.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	kind := DetectType(mimeType, fileName, data)

	var (
		text string
		err  error
	)
	switch kind {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	case MimeText:
		text, err = extractPlain(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadable, kind, err)
	}
	text = normalizeWhitespace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// FromBytes builds ResumeData for an upload.
func FromBytes(ctx context.Context, data []byte, mimeType, fileName string) (ResumeData, error) {
	text, err := ExtractTextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		return ResumeData{}, err
	}
	return ResumeData{Text: text, FileName: filepath.Base(strings.TrimSpace(fileName))}, nil
}

// DetectType resolves the effective document type of an upload.
func DetectType(mimeType, fileName string, data []byte) string {
	declared := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch declared {
	case MimePDF, MimeDOCX, MimeText:
		return declared
	case "application/zip":
		if isDOCXArchive(data) {
			return MimeDOCX
		}
		return declared
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt":
		return MimeText
	}

	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	sniffed := strings.Split(http.DetectContentType(data), ";")[0]
	switch sniffed {
	case MimePDF, MimeText:
		return sniffed
	case "application/zip":
		if isDOCXArchive(data) {
			return MimeDOCX
		}
	}
	return sniffed
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		defer doc.Close()
		if text := stripDocxXML(doc.Editable().GetContent()); text != "" {
			return text, nil
		}
	}
	return extractDOCXArchive(data)
}

// extractDOCXArchive reads word/document.xml directly for files the docx library rejects.
func extractDOCXArchive(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}
	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return stripDocxXML(string(raw)), nil
}

func extractPlain(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", errors.New("text file is not valid UTF-8")
	}
	return string(data), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ""
		}
		switch t := tok.(type) {
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteString("\t")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p", "br":
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func isDOCXArchive(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}

// normalizeWhitespace trims lines and collapses runs of blank lines.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
