package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// readHTML strips markup and returns the visible text of an HTML
// document, skipping script and style subtrees.
func readHTML(content []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return b.String(), nil
}

// readEpub treats an EPUB as a zip of XHTML content documents and
// concatenates the stripped text of each, in archive order.
func readEpub(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("epub: not a zip: %w", err)
	}

	var b strings.Builder
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		if !strings.HasSuffix(name, ".xhtml") && !strings.HasSuffix(name, ".html") && !strings.HasSuffix(name, ".htm") {
			continue
		}
		data, err := readZipEntry(zr, f.Name)
		if err != nil {
			return "", fmt.Errorf("epub: %w", err)
		}
		text, err := readHTML(data)
		if err != nil {
			return "", fmt.Errorf("epub: %w", err)
		}
		if text != "" {
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("epub: no content documents found")
	}
	return b.String(), nil
}
