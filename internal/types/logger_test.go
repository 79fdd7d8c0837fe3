package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HugoDaniel/shadertypes/internal/datatype"
)

func TestSetLoggerNil(t *testing.T) {
	Logger()
	SetLogger(nil)
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	require.NotNil(t, Logger())
	a := &Alias{Ident: "A"}
	assert.NotPanics(t, func() {
		require.NoError(t, a.Link(NewBase(datatype.Float)))
	})
}
