package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minelog/internal/logstore"
	"github.com/roach88/minelog/internal/testutil"
)

func init() {
	color.NoColor = true
}

// cliResult captures one command execution.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

// isolateEnv clears MINELOG_* variables so the host environment cannot leak
// into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"MINELOG_DATA_DIR",
		"MINELOG_LOG_LEVEL",
		"MINELOG_LOG_FORMAT",
		"MINELOG_SYNC",
		"MINELOG_INDEX_PATH",
	} {
		t.Setenv(name, "")
	}
}

// runCLI executes the root command against dataDir with a deterministic clock.
func runCLI(t *testing.T, dataDir string, stdin string, args ...string) cliResult {
	t.Helper()
	isolateEnv(t)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	clock := testutil.NewClock()

	cmd := newRootCommand(&RootOptions{Now: clock.Now})
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	var in io.Reader = strings.NewReader(stdin)
	cmd.SetIn(in)
	cmd.SetArgs(append([]string{"--data-dir", dataDir}, args...))

	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// seedStore writes the sample history into a fresh data directory.
func seedStore(t *testing.T) (string, *logstore.Store) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	st, err := logstore.Open(dir)
	require.NoError(t, err)

	receipts, errs := testutil.SampleHistory()
	for _, r := range receipts {
		st.AppendReceipt(r)
	}
	for _, e := range errs {
		st.AppendError(e)
	}
	return dir, st
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func assertGolden(t *testing.T, name string, actual string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(actual))
}

func appendRaw(t *testing.T, path, contents string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(contents)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func mkdir(path string) error {
	return os.Mkdir(path, 0o755)
}
