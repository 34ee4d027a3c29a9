package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phpdave11/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocateReturnsFirstDirWithAFile(t *testing.T) {
	empty := t.TempDir()
	partial := t.TempDir()
	full := t.TempDir()
	writeCoreFontDefs(t, partial, map[string]string{"timesb.json": "Times-Bold"})
	writeCoreFontDefs(t, full, standardFontFiles)

	locator := NewFontLocatorWithDirs([]string{filepath.Join(empty, "missing"), empty, partial, full}, zap.NewNop())

	resolve, dir, err := locator.LocateStandard()
	require.NoError(t, err)
	assert.Equal(t, partial, dir)

	_, err = resolve("timesb.json")
	assert.NoError(t, err)
	_, err = resolve("helvetica.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocateFailsWhenNothingResolves(t *testing.T) {
	locator := NewFontLocatorWithDirs([]string{t.TempDir()}, nil)
	_, _, err := locator.LocateStandard()
	assert.ErrorIs(t, err, ErrFontsNotFound)
}

func TestResolverIgnoresRequestedDirectory(t *testing.T) {
	dir := t.TempDir()
	writeCoreFontDefs(t, dir, standardFontFiles)

	resolve := dirResolver(dir)
	data, err := resolve("/nonexistent/engine/font/helvetica.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Helvetica")
}

func TestInstallFontsIsPerDocument(t *testing.T) {
	dir := t.TempDir()
	writeCoreFontDefs(t, dir, standardFontFiles)

	var requested []string
	resolve := func(name string) ([]byte, error) {
		requested = append(requested, name)
		return dirResolver(dir)(name)
	}

	withFonts := gofpdf.New("P", "mm", "A4", "")
	assert.Equal(t, 4, installFonts(withFonts, resolve))
	require.NoError(t, withFonts.Error())
	assert.ElementsMatch(t, []string{"helvetica.json", "helveticab.json", "times.json", "timesb.json"}, requested)

	plain := gofpdf.New("P", "mm", "A4", "")
	plain.AddPage()
	plain.SetFont("Helvetica", "", 10)
	assert.NoError(t, plain.Error())
}

func TestInstallFontsSkipsMissingFiles(t *testing.T) {
	resolve := MapResolver(map[string][]byte{})
	doc := gofpdf.New("P", "mm", "A4", "")
	assert.Equal(t, 0, installFonts(doc, resolve))
	assert.NoError(t, doc.Error())
}

func TestCandidateDirsOrder(t *testing.T) {
	dirs := candidateDirs("/srv/fonts")
	require.NotEmpty(t, dirs)
	assert.Equal(t, "/srv/fonts", dirs[0])
	assert.Contains(t, dirs, "/var/task/font")

	seen := map[string]bool{}
	for _, d := range dirs {
		assert.False(t, seen[d], "duplicate candidate %s", d)
		seen[d] = true
	}
}
