package processor

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"tomekeeper/backend/internal/extract"
)

// extensionFamilies is the static dispatch table. Built once, never
// mutated after init, so concurrent dispatches can read it freely.
var extensionFamilies = map[string]extract.Family{
	".txt":   extract.FamilyFlat,
	".md":    extract.FamilyMarkdown,
	".csv":   extract.FamilyCSV,
	".html":  extract.FamilyHTML,
	".htm":   extract.FamilyHTML,
	".epub":  extract.FamilyEpub,
	".pdf":   extract.FamilyPDF,
	".docx":  extract.FamilyDocx,
	".pptx":  extract.FamilyPptx,
	".rtf":   extract.FamilyRTF,
	".hwp":   extract.FamilyHWP,
	".ipynb": extract.FamilyIPYNB,
	".mbox":  extract.FamilyMbox,
	".xml":   extract.FamilyXML,
	".mp4":   extract.FamilyVideo,
}

// mimeFamilies maps sniffed content types onto the nearest reader
// family. Checked in order, most specific first.
var mimeFamilies = []struct {
	mime   string
	family extract.Family
}{
	{"application/pdf", extract.FamilyPDF},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", extract.FamilyDocx},
	{"application/vnd.openxmlformats-officedocument.presentationml.presentation", extract.FamilyPptx},
	{"application/epub+zip", extract.FamilyEpub},
	{"text/rtf", extract.FamilyRTF},
	{"text/html", extract.FamilyHTML},
	{"text/csv", extract.FamilyCSV},
	{"text/markdown", extract.FamilyMarkdown},
	{"text/xml", extract.FamilyXML},
	{"video/mp4", extract.FamilyVideo},
}

// AllowedExtensions returns the accepted upload extensions, sorted,
// each with its leading dot.
func AllowedExtensions() []string {
	exts := make([]string, 0, len(extensionFamilies))
	for ext := range extensionFamilies {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ExtensionAllowed reports whether a file name carries an accepted
// extension.
func ExtensionAllowed(fileName string) bool {
	_, ok := extensionFamilies[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

// Dispatcher selects a processor for a stored file. Extension match
// wins; unknown extensions are content-sniffed, and an unresolvable
// sniff falls back to plain text.
type Dispatcher struct {
	maxChars int
	video    *VideoProcessor
}

func NewDispatcher(maxChars int, video *VideoProcessor) *Dispatcher {
	return &Dispatcher{maxChars: maxChars, video: video}
}

func (d *Dispatcher) Select(path string) Processor {
	family := d.resolve(path)
	if family == extract.FamilyVideo {
		if d.video != nil {
			return d.video
		}
		// no video processor wired
		family = extract.FamilyFlat
	}
	return NewTextProcessor(family, d.maxChars)
}

func (d *Dispatcher) resolve(path string) extract.Family {
	if family, ok := extensionFamilies[strings.ToLower(filepath.Ext(path))]; ok {
		return family
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return extract.FamilyFlat
	}
	for _, m := range mimeFamilies {
		if detected.Is(m.mime) {
			return m.family
		}
	}
	return extract.FamilyFlat
}
