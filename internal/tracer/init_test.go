package tracer

import (
	"context"
	"testing"

	"citystyle-be/internal/config"
	"citystyle-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown := InitTracer(config.TracingConfig{Enabled: false}, logger.NewNopLogger())

	assert.NoError(t, shutdown(context.Background()))
}
