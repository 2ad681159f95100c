package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtxInfoCarriesRequestFields(t *testing.T) {
	Init("production")
	var buf bytes.Buffer
	SetOutput(&buf)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "42")
	CtxInfo(ctx, "rating created", "store_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rating created", entry["message"])
	assert.Equal(t, "info", entry["severity"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "42", entry["user_id"])
	assert.EqualValues(t, 7, entry["store_id"])
}

func TestFieldsHandlesOddArgsAndErrors(t *testing.T) {
	f := fields([]any{"error", errors.New("boom"), "dangling"})

	assert.Equal(t, "boom", f["error"])
	assert.Equal(t, "dangling", f["!BADKEY"])
}

func TestDebugSuppressedInProduction(t *testing.T) {
	Init("production")
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("noisy", "k", "v")
	assert.Empty(t, buf.String())
}
