package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtensionMechanism(t *testing.T) {
	if testing.Short() {
		t.Skip("compiles binaries")
	}
	tempDir := t.TempDir()

	// stx-hello prints the environment it was given, and exits with the code in its first arg.
	helloCmdSource := fmt.Sprintf(`
package main

import (
	"fmt"
	"os"
	"strconv"
)

func main() {
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("args=%%v\n", os.Args[1:])
	if len(os.Args) > 1 {
		code, _ := strconv.Atoi(os.Args[1])
		os.Exit(code)
	}
}
`, EnvConfig, EnvConfig, EnvVerbose, EnvVerbose)

	helloCmdPath := filepath.Join(tempDir, ExtensionPrefix+"hello")
	srcFile := helloCmdPath + ".go"
	if err := os.WriteFile(srcFile, []byte(helloCmdSource), 0644); err != nil {
		t.Fatalf("Failed to write stx-hello source: %v", err)
	}
	cmd := exec.Command("go", "build", "-o", helloCmdPath, srcFile)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to compile stx-hello: %v", err)
	}

	stxBinaryPath := filepath.Join(tempDir, "stx")
	cmd = exec.Command("go", "build", "-o", stxBinaryPath, "../stx")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to compile stx binary: %v", err)
	}

	expectedConfig := filepath.Join(tempDir, "stx.yaml")
	run := func(args ...string) (string, int) {
		stxCmd := exec.Command(stxBinaryPath, args...)
		stxCmd.Env = []string{"PATH=" + tempDir + string(os.PathListSeparator) + os.Getenv("PATH")}
		var stdout, stderr bytes.Buffer
		stxCmd.Stdout = &stdout
		stxCmd.Stderr = &stderr
		err := stxCmd.Run()
		if exitErr, ok := err.(*exec.ExitError); ok {
			return stdout.String(), exitErr.ExitCode()
		}
		if err != nil {
			t.Fatalf("stx command failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
		}
		return stdout.String(), 0
	}

	output, code := run("-config", expectedConfig, "-v", "hello")
	if code != 0 {
		t.Fatalf("stx hello exited with %d:\n%s", code, output)
	}
	for _, expectedLine := range []string{
		EnvConfig + "=" + expectedConfig,
		EnvVerbose + "=true",
		"args=[]",
	} {
		if !strings.Contains(output, expectedLine) {
			t.Errorf("Expected output to contain %q, but got:\n%s", expectedLine, output)
		}
	}

	// arguments and exit code go through
	output, code = run("hello", "3")
	if code != 3 {
		t.Errorf("stx hello 3 exited with %d, want 3", code)
	}
	if !strings.Contains(output, "args=[3]") {
		t.Errorf("Expected output to contain the arguments, but got:\n%s", output)
	}
}

func TestRunExtensionNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	found, code := RunExtension("does-not-exist", nil)
	if found || code != 0 {
		t.Errorf("RunExtension() = (%v, %d), want (false, 0)", found, code)
	}
}
