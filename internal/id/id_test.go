package id

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateFormat(t *testing.T) {
	for _, prefix := range []string{"trace", "x"} {
		t.Run(prefix, func(t *testing.T) {
			assert.Regexp(t, regexp.MustCompile(`^`+prefix+`_[0-9a-f]{8}$`), Generate(prefix))
		})
	}
}

func TestSession(t *testing.T) {
	assert.Regexp(t, `^trace_[0-9a-f]{8}$`, Session())
}

func TestGenerateUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := Session()
		assert.False(t, seen[id], "collision: %s", id)
		seen[id] = true
	}
}
