package theme

import (
	"testing"

	"github.com/awaistahir/skincycle/internal/engine"
	"github.com/stretchr/testify/assert"
)

func TestEveryTypeHasStyle(t *testing.T) {
	all := All()
	assert.Len(t, all, len(engine.ProductTypes))
	for _, info := range all {
		assert.NotEmpty(t, info.Label, "type %s", info.Type)
		assert.NotEmpty(t, info.ColorDark, "type %s", info.Type)
		assert.NotEmpty(t, info.ColorLight, "type %s", info.Type)
	}
}

func TestAccent(t *testing.T) {
	assert.Equal(t, "#00D2BE", Accent(engine.TypeRecovery, true))
	assert.Equal(t, "#30D158", Accent(engine.TypeRecovery, false))
	assert.Equal(t, For(engine.TypeOther), For(engine.ProductType("bogus")))
}
