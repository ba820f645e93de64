package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/irgen/internal/hcl_adapter"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing. It returns the
// app, the buffer receiving stdout documents and the log buffer.
func SetupAppTest(t *testing.T, appConfig *Config) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	outBuffer, logBuffer := &SafeBuffer{}, &SafeBuffer{}
	appConfig.LogLevel = "debug"
	testApp, err := NewApp(outBuffer, logBuffer, appConfig, hcl_adapter.NewLoader())
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("IRGEN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
