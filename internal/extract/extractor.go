// Package extract converts raw document files into plain text, one
// reader per file family.
package extract

import (
	"fmt"
	"os"
)

// Family identifies a reader family. The processor dispatch table maps
// file extensions onto these.
type Family string

const (
	FamilyFlat     Family = "flat"
	FamilyMarkdown Family = "markdown"
	FamilyHTML     Family = "html"
	FamilyEpub     Family = "epub"
	FamilyPDF      Family = "pdf"
	FamilyDocx     Family = "docx"
	FamilyPptx     Family = "pptx"
	FamilyRTF      Family = "rtf"
	FamilyHWP      Family = "hwp"
	FamilyIPYNB    Family = "ipynb"
	FamilyMbox     Family = "mbox"
	FamilyCSV      Family = "csv"
	FamilyXML      Family = "xml"
	FamilyVideo    Family = "video"
)

// FormatError reports a file the family reader could not parse. The
// whole file is aborted; no partial text is returned.
type FormatError struct {
	Family Family
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error (%s): %v", e.Family, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Read loads the file at path and extracts its full text using the
// reader for the given family. Parse failures come back as *FormatError.
func Read(family Family, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	var text string
	switch family {
	case FamilyFlat, FamilyMarkdown, FamilyCSV:
		text, err = readPlain(content)
	case FamilyHTML:
		text, err = readHTML(content)
	case FamilyEpub:
		text, err = readEpub(content)
	case FamilyPDF:
		text, err = readPDF(content)
	case FamilyDocx:
		text, err = readDocx(content)
	case FamilyPptx:
		text, err = readPptx(content)
	case FamilyRTF:
		text, err = readRTF(path)
	case FamilyHWP:
		text, err = readHWP(content)
	case FamilyIPYNB:
		text, err = readIPYNB(content)
	case FamilyMbox:
		text, err = readMbox(content)
	case FamilyXML:
		text, err = readXML(content)
	default:
		err = fmt.Errorf("no reader for family %q", family)
	}

	if err != nil {
		return "", &FormatError{Family: family, Err: err}
	}
	return text, nil
}
