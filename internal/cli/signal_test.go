package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalContext_StopWithoutSignal(t *testing.T) {
	ctx := NewSignalContext(t.Context(), nil)
	ctx.Stop()

	<-ctx.Done()
	assert.Nil(t, ctx.Signal())
	assert.NoError(t, ctx.Result(nil))

	boom := errors.New("boom")
	assert.Same(t, boom, ctx.Result(boom))
}
