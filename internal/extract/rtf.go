package extract

import (
	"fmt"

	"github.com/lu4p/cat"
)

// readRTF extracts text from an RTF file. cat sniffs the format from
// the file itself, so this also tolerates ODT files mislabeled .rtf.
func readRTF(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("rtf: %w", err)
	}
	return text, nil
}
