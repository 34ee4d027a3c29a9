package pdf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// writeCoreFontDefs writes minimal core-font metric files into dir.
func writeCoreFontDefs(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	widths := make([]int, 256)
	for i := range widths {
		widths[i] = 556
	}
	for file, name := range files {
		body, err := json.Marshal(map[string]any{
			"Tp":   "Core",
			"Name": name,
			"Up":   -100,
			"Ut":   50,
			"Cw":   widths,
		})
		if err != nil {
			t.Fatalf("marshal font def: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, file), body, 0o644); err != nil {
			t.Fatalf("write font def: %v", err)
		}
	}
}

var standardFontFiles = map[string]string{
	"helvetica.json":  "Helvetica",
	"helveticab.json": "Helvetica-Bold",
	"times.json":      "Times-Roman",
	"timesb.json":     "Times-Bold",
}
