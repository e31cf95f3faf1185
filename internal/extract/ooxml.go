package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// OOXML text nodes: <w:t> in Word documents, <a:t> in presentations.
// Attribute-tolerant so real-world files (e.g. <w:t xml:space="preserve">)
// still match.
var (
	wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	atTag = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)
)

const docxDocumentPath = "word/document.xml"
const pptxSlidePrefix = "ppt/slides/slide"

// readDocx extracts text from .docx bytes. DOCX is a zip containing
// word/document.xml; all <w:t> text nodes are joined with spaces.
func readDocx(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("docx: not a zip: %w", err)
	}

	docXML, err := readZipEntry(zr, docxDocumentPath)
	if err != nil {
		return "", fmt.Errorf("docx: %w", err)
	}

	return joinMatches(wtTag, string(docXML)), nil
}

// readPptx extracts text from .pptx bytes, walking every slide XML and
// collecting <a:t> text nodes.
func readPptx(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("pptx: not a zip: %w", err)
	}

	var buf strings.Builder
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, pptxSlidePrefix) || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		slideXML, err := readZipEntry(zr, f.Name)
		if err != nil {
			return "", fmt.Errorf("pptx: %w", err)
		}
		text := joinMatches(atTag, string(slideXML))
		if text != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(text)
		}
	}
	return buf.String(), nil
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		_ = rc.Close()
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%s not found", name)
}

func joinMatches(re *regexp.Regexp, xml string) string {
	parts := re.FindAllStringSubmatch(xml, -1)
	var b strings.Builder
	for _, p := range parts {
		t := strings.TrimSpace(p[1])
		if t == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t)
	}
	return b.String()
}
