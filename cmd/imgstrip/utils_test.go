package imgstrip

import (
	"testing"

	"github.com/redactyl/imgstrip/internal/config"
	"github.com/redactyl/imgstrip/internal/extract"
	"github.com/stretchr/testify/assert"
)

func TestPickPrecedence(t *testing.T) {
	local, global := "local", "global"
	assert.Equal(t, "cli", pickString("cli", &local, &global))
	assert.Equal(t, "local", pickString("", &local, &global))
	assert.Equal(t, "global", pickString("", nil, &global))
	assert.Equal(t, "", pickString("", nil, nil))

	l, g := 4, 9
	assert.Equal(t, 4, pickInt(0, &l, &g))
	assert.Equal(t, 9, pickInt(0, nil, &g))

	f := false
	tr := true
	assert.True(t, pickBool(true, &f, &f))
	assert.False(t, pickBool(false, &f, &tr), "local false wins over global true")
	assert.True(t, pickBool(false, nil, &tr))
}

func TestMatcherFor(t *testing.T) {
	assert.Equal(t, extract.DefaultMatcher(), matcherFor(settings{}, "", ""))

	keys := "thumb, preview"
	s := settings{global: config.FileConfig{Keys: &keys}}
	m := matcherFor(s, "", "")
	assert.Equal(t, []string{"thumb", "preview"}, m.Keys)
	assert.Equal(t, extract.JPEGPrefix, m.Prefix)

	m = matcherFor(s, "src", "iVBOR")
	assert.Equal(t, []string{"src"}, m.Keys)
	assert.Equal(t, "iVBOR", m.Prefix)
}
