package domain

import (
	"crypto/rand"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	codePrefix     = "REG-"
	codeSuffixSize = 5
)

// CodeGenerator produces REG-YYYYMMDD-XXXXX codes. The date is taken in the
// site's timezone; the suffix is the tail of a ULID's random component.
// Codes are not guaranteed unique; the booking id is.
type CodeGenerator struct {
	loc     *time.Location
	entropy io.Reader
}

func NewCodeGenerator(loc *time.Location) *CodeGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &CodeGenerator{loc: loc, entropy: rand.Reader}
}

func (g *CodeGenerator) Generate(now time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(now), g.entropy)
	if err != nil {
		return "", err
	}
	s := id.String()
	return codePrefix + now.In(g.loc).Format("20060102") + "-" + s[len(s)-codeSuffixSize:], nil
}
