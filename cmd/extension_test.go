package cmd

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// captureStdout returns what f writes on os.Stdout.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	f()
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts in this test")
	}
	dir := t.TempDir()
	script := `#!/bin/sh
echo "args=$*"
echo "` + EnvConfigFile + `=$` + EnvConfigFile + `"
echo "` + EnvDataRoot + `=$` + EnvDataRoot + `"
echo "` + EnvVerbose + `=$` + EnvVerbose + `"
exit 3
`
	if err := os.WriteFile(filepath.Join(dir, "dvd-hello"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	oldRoot, oldVerbose := *dataRoot, *Verbose
	*dataRoot, *Verbose = "/tmp/prices", true
	defer func() { *dataRoot, *Verbose = oldRoot, oldVerbose }()

	var found bool
	var code int
	out := captureStdout(t, func() { found, code = RunExtension("hello", []string{"a", "b"}) })

	if !found || code != 3 {
		t.Errorf("RunExtension(hello) = %v, %d, want true, 3", found, code)
	}
	for _, want := range []string{
		"args=a b",
		EnvConfigFile + "=dvd.yaml",
		EnvDataRoot + "=/tmp/prices",
		EnvVerbose + "=true",
	} {
		if !strings.Contains(out, want+"\n") {
			t.Errorf("extension output %q does not contain %q", out, want)
		}
	}
}

func TestRunExtensionNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if found, code := RunExtension("missing", nil); found || code != 0 {
		t.Errorf("RunExtension(missing) = %v, %d, want false, 0", found, code)
	}
}
