package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Senior Go Engineer</w:t></w:r><w:r><w:tab/><w:t>Kubernetes</w:t></w:r></w:p>
</w:body>
</w:document>`

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildZip(t, map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":   documentXML,
	})

	text, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "test.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") || !strings.Contains(text, "Senior Go Engineer\tKubernetes") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	data := buildZip(t, map[string]string{"notes.txt": "hello"})

	_, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtractPlainText(t *testing.T) {
	data := []byte("\xef\xbb\xbfGo developer\r\n\r\n\r\n  Postgres, gin  \r\n")
	rd, err := FromBytes(context.Background(), data, "", "uploads/cv.txt")
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if rd.Text != "Go developer\n\n  Postgres, gin" {
		t.Fatalf("unexpected text %q", rd.Text)
	}
	if rd.FileName != "cv.txt" {
		t.Fatalf("unexpected file name %q", rd.FileName)
	}
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		mime     string
		fileName string
		want     error
	}{
		{"image", []byte("\x89PNG\r\n\x1a\n0000"), "image/png", "photo.png", ErrUnsupportedType},
		{"empty text", []byte("   \n\t"), "text/plain", "blank.txt", ErrEmptyText},
		{"legacy doc", []byte("binary"), "application/msword", "cv.doc", ErrUnsupportedType},
		{"corrupt pdf", []byte("%PDF-garbage"), "application/pdf", "cv.pdf", ErrUnreadable},
		{"invalid utf8", []byte{0xff, 0xfe, 0x00}, "text/plain", "cv.txt", ErrUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractTextFromBytes(context.Background(), tt.data, tt.mime, tt.fileName)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDetectType(t *testing.T) {
	docxData := buildZip(t, map[string]string{"word/document.xml": documentXML})
	tests := []struct {
		name     string
		mime     string
		fileName string
		data     []byte
		want     string
	}{
		{"declared pdf", "application/pdf; charset=binary", "x", nil, MimePDF},
		{"extension pdf", "application/octet-stream", "cv.PDF", nil, MimePDF},
		{"extension txt", "", "cv.txt", nil, MimeText},
		{"sniff pdf", "", "upload", []byte("%PDF-1.7\n..."), MimePDF},
		{"sniff docx", "", "upload", docxData, MimeDOCX},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectType(tt.mime, tt.fileName, tt.data); got != tt.want {
				t.Fatalf("DetectType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractTextFromBytes(ctx, []byte("hi"), "text/plain", "a.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
