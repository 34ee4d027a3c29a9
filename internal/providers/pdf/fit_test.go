package pdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitTextKeepsShortText(t *testing.T) {
	assert.Equal(t, "Science Fair", fitText("  Science Fair ", 100, 10, 10))
}

func TestFitTextTruncatesAtWordBoundary(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor ", 100)
	got := fitText(text, 60, 10, 10)

	capacity := boxCapacity(60, 10, 10)
	assert.LessOrEqual(t, len(got), capacity)
	assert.True(t, strings.HasSuffix(got, ellipsis))

	body := strings.TrimSuffix(got, ellipsis)
	assert.True(t, strings.HasSuffix(body, "lorem") || strings.HasSuffix(body, "ipsum") || strings.HasSuffix(body, "dolor"),
		"expected cut at a word boundary, got %q", body)
}

func TestFitTextHardCutsLongWord(t *testing.T) {
	text := strings.Repeat("x", 500)
	got := fitText(text, 30, 5, 10)
	assert.Equal(t, boxCapacity(30, 5, 10), len(got))
	assert.True(t, strings.HasSuffix(got, ellipsis))
}

func TestFitTextZeroBox(t *testing.T) {
	assert.Equal(t, "", fitText("anything", 0, 10, 10))
	assert.Equal(t, "", fitText("anything", 50, 0, 10))
}

func TestFourThousandCharacterInformationFits(t *testing.T) {
	info := strings.Repeat("a", 4000)
	got := fitText(info, contentWidth, maxInfoHeight, bodySize)
	assert.Less(t, len(got), len(info))
	assert.LessOrEqual(t, len(got), boxCapacity(contentWidth, maxInfoHeight, bodySize))
}

func TestClipLines(t *testing.T) {
	lines := []string{"one", "two", "three", "four"}
	assert.Equal(t, []string{"one", "two..."}, clipLines(lines, 2, 40))
	assert.Equal(t, lines, clipLines(lines, 10, 40))
	assert.Nil(t, clipLines(lines, 0, 40))
}

func TestTruncateTinyCapacity(t *testing.T) {
	assert.Equal(t, "..", truncateAt("hello world", 2))
	assert.Equal(t, "", truncateAt("hello", 0))
}
