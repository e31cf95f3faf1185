package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// readIPYNB pulls the source of markdown and code cells out of a
// Jupyter notebook, in cell order. Outputs are ignored.
func readIPYNB(content []byte) (string, error) {
	var nb struct {
		Cells []struct {
			CellType string   `json:"cell_type"`
			Source   []string `json:"source"`
		} `json:"cells"`
	}
	if err := json.Unmarshal(content, &nb); err != nil {
		return "", fmt.Errorf("ipynb: %w", err)
	}
	if nb.Cells == nil {
		return "", fmt.Errorf("ipynb: no cells")
	}

	var b strings.Builder
	for _, cell := range nb.Cells {
		if cell.CellType != "markdown" && cell.CellType != "code" {
			continue
		}
		src := strings.TrimSpace(strings.Join(cell.Source, ""))
		if src == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(src)
	}
	return b.String(), nil
}
