package neosdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDefaultLoggerIsNoop(t *testing.T) {
	assert.NotNil(t, Logger())
	assert.False(t, Logger().Core().Enabled(zap.DebugLevel))
}

func TestSetLoggerInstallsGivenLogger(t *testing.T) {
	defer SetLogger(nil)

	custom := zap.NewExample()
	SetLogger(custom)
	assert.Same(t, custom, Logger())
}

func TestSetLoggerNilRestoresNoop(t *testing.T) {
	SetLogger(zap.NewExample())
	SetLogger(nil)
	assert.NotNil(t, Logger())
	assert.NotSame(t, zap.NewExample(), Logger())
	assert.False(t, Logger().Core().Enabled(zap.DebugLevel))
}
