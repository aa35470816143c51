package moderation

import (
	"encoding/json"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// newTestClient returns a client that is never actually dialed by the tests
// using it: those tests only exercise payload validation paths that return
// before any network call is made.
func newTestClient(t *testing.T) openai.Client {
	t.Helper()
	return openai.NewClient(option.WithAPIKey("test-key"))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
