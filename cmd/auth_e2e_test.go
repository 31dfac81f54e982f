package cmd_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_AuthCheck verifies that auth check builds a working client from the
// loaded configuration and reaches the API endpoint the config names.
func TestE2E_AuthCheck(t *testing.T) {
	t.Parallel()

	requests := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case requests <- r.URL.Path:
		default:
		}

		w.Header().Set("Content-Type", "application/json")

		err := json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{
				"id":         42314,
				"first_name": "Ivan",
				"last_name":  "Petrov",
			},
		})
		assert.NoError(t, err)
	}))
	t.Cleanup(server.Close)

	configContent := testE2EBaseConfig + "api_base_url: \"" + server.URL + "/method\"\n"

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")
	err := os.WriteFile(configPath, []byte(configContent), 0o644) //nolint:gosec // It's a test file.
	require.NoError(t, err)

	//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
	cmd := exec.Command("./"+testBinaryName, "auth", "check", "--config", configPath)
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, "auth check failed: %s", string(output))
	assert.Contains(t, string(output), "authorized as Ivan Petrov")

	select {
	case path := <-requests:
		assert.Equal(t, "/method/account.getProfileInfo", path)
	default:
		t.Fatal("The API server was never called")
	}
}
