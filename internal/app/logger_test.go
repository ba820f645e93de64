package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/irgen/internal/model"
)

func TestNewLogger_ConversionErrorIsStructured(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	buf := &SafeBuffer{}
	logger := newLogger("info", "json", buf)
	convErr := model.Errorf(model.KindAddressOverlap, model.Ref{Sheet: "regs", Row: 4}, "register b overlaps a").WithName("b")

	// --- Act ---
	logger.Error("Conversion failed.", "error", fmt.Errorf("uart.xlsx: %w", convErr))

	// --- Assert ---
	var record struct {
		App   string `json:"app"`
		Error struct {
			Msg  string `json:"msg"`
			Kind string `json:"kind"`
			Ref  string `json:"ref"`
			Name string `json:"name"`
		} `json:"error"`
		Source any `json:"source"`
	}
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &record))
	assert.Equal(t, "irgen", record.App)
	assert.Equal(t, string(model.KindAddressOverlap), record.Error.Kind)
	assert.Equal(t, model.Ref{Sheet: "regs", Row: 4}.String(), record.Error.Ref)
	assert.Equal(t, "b", record.Error.Name)
	assert.Contains(t, record.Error.Msg, "uart.xlsx: ")
	assert.Nil(t, record.Source, "source is only added at debug level")
}

func TestNewLogger_PlainErrorIsUnchanged(t *testing.T) {
	t.Parallel()

	buf := &SafeBuffer{}
	newLogger("info", "text", buf).Error("Input resolution failed.", "error", errors.New("no such file"))

	assert.Contains(t, buf.String(), `error="no such file"`)
}

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		level      string
		wantDebug  bool
		wantInfo   bool
		wantSource bool
	}{
		{level: "debug", wantDebug: true, wantInfo: true, wantSource: true},
		{level: "info", wantInfo: true},
		{level: "warn"},
		{level: "bogus", wantInfo: true},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			t.Parallel()

			buf := &SafeBuffer{}
			logger := newLogger(tc.level, "text", buf)

			logger.Debug("debug record")
			logger.Info("info record")

			out := buf.String()
			assert.Equal(t, tc.wantDebug, strings.Contains(out, "debug record"))
			assert.Equal(t, tc.wantInfo, strings.Contains(out, "info record"))
			assert.Equal(t, tc.wantSource, strings.Contains(out, "source="))
		})
	}
}

