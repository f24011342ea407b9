package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the binary and checks its exit codes and output.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	tmpDir := t.TempDir()
	binName := "bigocalc"
	if runtime.GOOS == "windows" {
		binName = "bigocalc.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs in the package directory; build from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/bigocalc")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build bigocalc: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // case-insensitive substring
		wantCode int
	}{
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "bigocalc",
			wantCode: 0,
		},
		{
			name:     "List Candidates",
			args:     []string{"list"},
			wantOut:  "binary-search",
			wantCode: 0,
		},
		{
			name:     "Quiet Analysis",
			args:     []string{"-a", "first-element", "-s", "100,200,400", "-i", "1", "--quiet"},
			wantOut:  "first-element\tconstant\t",
			wantCode: 0,
		},
		{
			name:     "JSON Analysis",
			args:     []string{"-a", "first-element", "-s", "100,200,400", "-i", "1", "--json"},
			wantOut:  `"bestFit": "constant"`,
			wantCode: 0,
		},
		{
			name:     "Invalid Size Plan",
			args:     []string{"-s", "pow10:5-2"},
			wantOut:  "configuration error",
			wantCode: 4,
		},
		{
			name:     "Unknown Candidate",
			args:     []string{"-a", "nope", "--quiet"},
			wantOut:  "nope",
			wantCode: 4,
		},
		{
			name:     "Very Short Timeout",
			args:     []string{"-a", "sort", "-s", "super", "--timeout", "1ms", "--quiet"},
			wantCode: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("running bigocalc: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput:\n%s", code, tt.wantCode, outStr)
			}

			if tt.wantOut != "" && !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
