package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// hpTag matches <hp:t>text</hp:t> nodes in HWPX section XML.
var hpTag = regexp.MustCompile(`<hp:t[^>]*>([^<]*)</hp:t>`)

// readHWP handles the zip-based HWPX container (Contents/section*.xml).
// The legacy OLE-compound HWP v5 binary format is not parseable here and
// surfaces as a format error.
func readHWP(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("hwp: legacy binary format not supported, expected hwpx: %w", err)
	}

	var b strings.Builder
	found := false
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "Contents/section") || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		found = true
		data, err := readZipEntry(zr, f.Name)
		if err != nil {
			return "", fmt.Errorf("hwp: %w", err)
		}
		text := joinMatches(hpTag, string(data))
		if text != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(text)
		}
	}
	if !found {
		return "", fmt.Errorf("hwp: no section documents found")
	}
	return b.String(), nil
}
