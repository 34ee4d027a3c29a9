package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

const gofpdfModule = "github.com/phpdave11/gofpdf"

var ErrFontsNotFound = errors.New("pdf_fonts_not_found")

// Resolver returns the bytes of a font metric file by its logical name,
// e.g. "helvetica.json".
type Resolver func(name string) ([]byte, error)

// Typeface names the metric files of one family.
type Typeface struct {
	Family  string
	Regular string
	Bold    string
}

// StandardTypefaces are the families the certificate uses.
var StandardTypefaces = []Typeface{
	{Family: "Helvetica", Regular: "helvetica.json", Bold: "helveticab.json"},
	{Family: "Times", Regular: "times.json", Bold: "timesb.json"},
}

func (t Typeface) files() []string {
	return []string{t.Regular, t.Bold}
}

// FontLocator searches known install layouts for gofpdf's font metric files.
type FontLocator struct {
	candidates []string
	log        *zap.Logger
}

// NewFontLocator builds a locator. An explicit dir, when set, is searched first.
func NewFontLocator(explicitDir string, log *zap.Logger) *FontLocator {
	if log == nil {
		log = zap.NewNop()
	}
	return &FontLocator{
		candidates: candidateDirs(explicitDir),
		log:        log.Named("pdf.fonts"),
	}
}

// NewFontLocatorWithDirs uses exactly the given directories, in order.
func NewFontLocatorWithDirs(dirs []string, log *zap.Logger) *FontLocator {
	if log == nil {
		log = zap.NewNop()
	}
	return &FontLocator{candidates: dirs, log: log.Named("pdf.fonts")}
}

func (l *FontLocator) Candidates() []string {
	return append([]string(nil), l.candidates...)
}

// Locate returns a resolver bound to the first candidate directory that holds
// at least one of the given files.
func (l *FontLocator) Locate(files ...string) (Resolver, string, error) {
	for _, dir := range l.candidates {
		if dir == "" {
			continue
		}
		for _, name := range files {
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil || info.IsDir() {
				continue
			}
			l.log.Debug("font directory resolved", zap.String("dir", dir), zap.String("matched", name))
			return dirResolver(dir), dir, nil
		}
	}
	return nil, "", fmt.Errorf("%w: searched %d directories for %s", ErrFontsNotFound, len(l.candidates), strings.Join(files, ", "))
}

// LocateStandard resolves the standard typefaces.
func (l *FontLocator) LocateStandard() (Resolver, string, error) {
	var files []string
	for _, tf := range StandardTypefaces {
		files = append(files, tf.files()...)
	}
	return l.Locate(files...)
}

func dirResolver(dir string) Resolver {
	return func(name string) ([]byte, error) {
		// gofpdf may ask for a path relative to its own font dir.
		return os.ReadFile(filepath.Join(dir, filepath.Base(name)))
	}
}

// MapResolver serves fonts from an in-memory map, used by tests and embedded builds.
func MapResolver(files map[string][]byte) Resolver {
	return func(name string) ([]byte, error) {
		data, ok := files[filepath.Base(name)]
		if !ok {
			return nil, os.ErrNotExist
		}
		return data, nil
	}
}

// loader adapts a Resolver to gofpdf's per-document FontLoader hook.
type loader struct {
	resolve Resolver
}

func (l loader) Open(name string) (io.Reader, error) {
	data, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// installFonts routes every metric-file read of doc through resolve and
// registers whichever standard typeface files resolve. Families that do not
// resolve keep the engine's built-in metrics. It touches no process-wide state.
func installFonts(doc *gofpdf.Fpdf, resolve Resolver) int {
	doc.SetFontLoader(loader{resolve: resolve})
	installed := 0
	for _, tf := range StandardTypefaces {
		for style, file := range map[string]string{"": tf.Regular, "B": tf.Bold} {
			data, err := resolve(file)
			if err != nil {
				continue
			}
			doc.AddFontFromReader(tf.Family, style, bytes.NewReader(data))
			installed++
		}
	}
	return installed
}

func candidateDirs(explicit string) []string {
	var dirs []string
	add := func(dir string) {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			return
		}
		for _, existing := range dirs {
			if existing == dir {
				return
			}
		}
		dirs = append(dirs, dir)
	}

	add(explicit)
	for _, dir := range moduleFontDirs() {
		add(dir)
	}
	add("font")
	add(filepath.Join("assets", "fonts"))
	if exe, err := os.Executable(); err == nil {
		add(filepath.Join(filepath.Dir(exe), "font"))
		add(filepath.Join(filepath.Dir(exe), "assets", "fonts"))
	}
	// Packaged and serverless layouts.
	add("/var/task/font")
	add("/opt/fonts")
	add("/usr/share/clubhouse/fonts")
	return dirs
}

// moduleFontDirs derives gofpdf's font directory inside the module cache
// from the version recorded in the build info.
func moduleFontDirs() []string {
	version := ""
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == gofpdfModule {
				version = dep.Version
				if dep.Replace != nil {
					version = dep.Replace.Version
				}
				break
			}
		}
	}
	if version == "" {
		return nil
	}

	var roots []string
	if modcache := os.Getenv("GOMODCACHE"); modcache != "" {
		roots = append(roots, modcache)
	}
	if gopath := os.Getenv("GOPATH"); gopath != "" {
		for _, p := range filepath.SplitList(gopath) {
			roots = append(roots, filepath.Join(p, "pkg", "mod"))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, "go", "pkg", "mod"))
	}

	dirs := make([]string, 0, len(roots))
	for _, root := range roots {
		dirs = append(dirs, filepath.Join(root, filepath.FromSlash(gofpdfModule)+"@"+version, "font"))
	}
	return dirs
}
