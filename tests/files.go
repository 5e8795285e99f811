// Package tests fetches the external test suites used by the nescore tests.
// They're downloaded on first use and cached next to this file.
package tests

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// Env is the environment variable enabling the tests which rely on
// downloaded suites.
const Env = "NESCORE_EXTERNAL_TESTS"

// Require skips tb unless the external suites are enabled.
func Require(tb testing.TB) {
	tb.Helper()
	if os.Getenv(Env) == "" {
		tb.Skipf("set %s=1 to run tests relying on external suites", Env)
	}
}

func download(url, path string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// download all 256 (one per opcode) 6502 single step test files into dest dir.
func downloadProcessorTests(tb testing.TB, dest string) {
	const urlfmt = `https://raw.githubusercontent.com/SingleStepTests/65x02/main/nes6502/v1/%02x.json`

	tempdir, err := os.MkdirTemp("", "processor.tests.*")
	if err != nil {
		tb.Fatal(err)
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for opcode := range 256 {
		url := fmt.Sprintf(urlfmt, opcode)
		path := filepath.Join(tempdir, fmt.Sprintf("%02x.json", opcode))
		g.Go(func() error {
			return download(url, path)
		})
	}

	if err := g.Wait(); err != nil {
		os.RemoveAll(tempdir)
		tb.Fatalf("failed to download all files: %s", err)
	}

	if err := os.Rename(tempdir, dest); err != nil {
		tb.Fatal(err)
	}
}

var procTestsMu sync.Mutex

// ProcessorTestsPath returns the directory holding the 6502 single step
// tests, downloading them if needed. Files are named after the opcode, in
// lower case hex ("a9.json").
func ProcessorTestsPath(tb testing.TB) string {
	procTestsMu.Lock()
	defer procTestsMu.Unlock()

	_, b, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(b), "processor.tests")

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		tb.Log("processor tests not found, downloading them...")
		downloadProcessorTests(tb, dir)
		tb.Log("processor tests downloaded in", dir)
	}
	return dir
}
