package helpers

import (
	"testing"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tests"

	_ "github.com/lancecummins/eatout/pb_migrations"
)

// TestServer wraps a PocketBase test instance
type TestServer struct {
	App core.App
	t   *testing.T
}

// NewTestServer creates a test PocketBase instance backed by a temporary
// data directory. Bootstrapping applies the registered migrations, so the
// sessions and responses collections exist afterward.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	app, err := tests.NewTestApp(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create test app: %v", err)
	}

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("Failed to bootstrap test app: %v", err)
	}

	return &TestServer{
		App: app,
		t:   t,
	}
}

// Cleanup closes the test server and removes temporary files
func (ts *TestServer) Cleanup() {
	if app, ok := ts.App.(*tests.TestApp); ok {
		app.Cleanup()
	}
}
