package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoLog_WithRunID(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	ctx := WithRunID(context.Background(), "run-42")
	InfoLog(ctx, "exported %d rows", 3)

	out := buf.String()
	assert.Contains(t, out, `"run_id":"run-42"`)
	assert.Contains(t, out, `"message":"exported 3 rows"`)
	assert.Contains(t, out, `"level":"info"`)
}

func TestErrorLog_WithoutRunID(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	ErrorLog(context.Background(), "boom")
	assert.NotContains(t, buf.String(), "run_id")
	assert.Contains(t, buf.String(), `"level":"error"`)
}
