package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const defaultSlugMaxLength = 60

var (
	bookingIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	nonSlugChars     = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRun        = regexp.MustCompile(`-{2,}`)
)

// Local writes artifacts under root/<event-slug>/booking-<id>.pdf and returns
// the matching path below publicPrefix.
type Local struct {
	root         string
	publicPrefix string
	slugMax      func() int
	log          *zap.Logger
}

func NewLocal(root, publicPrefix string, slugMax func() int, log *zap.Logger) *Local {
	if slugMax == nil {
		slugMax = func() int { return defaultSlugMaxLength }
	}
	if log == nil {
		log = zap.NewNop()
	}
	prefix := "/" + strings.Trim(publicPrefix, "/")
	return &Local{
		root:         root,
		publicPrefix: prefix,
		slugMax:      slugMax,
		log:          log.Named("storage.local"),
	}
}

func (l *Local) Name() string { return "local" }

func (l *Local) Put(ctx context.Context, obj Object) (*Artifact, error) {
	if err := obj.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidObject, err)
	}
	if !bookingIDPattern.MatchString(obj.BookingID) {
		return nil, fmt.Errorf("%w: booking id %q", ErrInvalidObject, obj.BookingID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	folder := EventSlug(obj.EventTitle, l.slugMax())
	filename := "booking-" + obj.BookingID + ".pdf"

	dir := filepath.Join(l.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}

	target := filepath.Join(dir, filename)
	tmp, err := os.CreateTemp(dir, ".booking-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create artifact: %w", err)
	}
	if _, err := tmp.Write(obj.Bytes); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("chmod artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("commit artifact: %w", err)
	}

	l.log.Debug("artifact written", zap.String("path", target))
	return &Artifact{
		Locator:  path.Join(l.publicPrefix, folder, filename),
		Strategy: l.Name(),
	}, nil
}

func (l *Local) Remove(_ context.Context, artifact *Artifact) error {
	if artifact == nil || artifact.Strategy != l.Name() {
		return nil
	}
	rel := strings.TrimPrefix(artifact.Locator, l.publicPrefix)
	rel = filepath.Clean("/" + rel)
	err := os.Remove(filepath.Join(l.root, rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// EventSlug lowercases title, strips everything but letters, digits and
// hyphens, collapses hyphen runs and caps the length.
func EventSlug(title string, max int) string {
	s := slug.Make(title)
	s = nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if max > 0 && len(s) > max {
		s = strings.TrimRight(s[:max], "-")
	}
	if s == "" {
		return "event"
	}
	return s
}
