package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^REG-\d{8}-[A-Za-z0-9]{5}$`)

func TestCodeGeneratorFormat(t *testing.T) {
	gen := NewCodeGenerator(nil)
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := gen.Generate(now)
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
		assert.Equal(t, "REG-20261018-", code[:13])
		seen[code] = true
	}
	assert.Greater(t, len(seen), 190, "suffixes should be random")
}

func TestCodeGeneratorUsesSiteTimezone(t *testing.T) {
	dhaka := time.FixedZone("BDT", 6*60*60)
	code, err := NewCodeGenerator(dhaka).Generate(time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "REG-20261019-", code[:13])
}
