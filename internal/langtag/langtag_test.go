package langtag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectJapanese(t *testing.T) {
	assert.Equal(t, "ja", Detect("今日はとても良い天気ですね、散歩に行きましょう"))
}

func TestDetectEnglish(t *testing.T) {
	assert.Equal(t, "en", Detect("The quick brown fox jumps over the lazy dog"))
}

func TestDetectEmpty(t *testing.T) {
	assert.Equal(t, "", Detect("   "))
}

func TestDetectLinesJoins(t *testing.T) {
	lines := []string{"今日はとても良い天気ですね", "散歩に行きましょう", "空がきれいです"}
	assert.Equal(t, "ja", DetectLines(lines))
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"English":             "en",
		"japanese":            "ja",
		"Traditional Chinese": "zh",
		"ko":                  "ko",
		"":                    "en",
		"Thai":                "thai",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}
