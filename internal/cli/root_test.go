package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "minelog", cmd.Use)
	assert.Contains(t, cmd.Long, "receipts.jsonl")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"receipts", "errors", "append", "stats", "validate", "index", "paths"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "data-dir"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}
}

func TestInvalidFormat(t *testing.T) {
	res := runCLI(t, t.TempDir(), "", "--format", "xml", "paths")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.err.Error(), "invalid format")
}

func TestPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	res := runCLI(t, dir, "", "--format", "json", "paths")
	require.NoError(t, res.err)

	var resp struct {
		Status string      `json:"status"`
		Data   PathsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, PathsResult{
		DataDir:  dir,
		Receipts: filepath.Join(dir, "receipts.jsonl"),
		Errors:   filepath.Join(dir, "errors.jsonl"),
		Index:    filepath.Join(dir, "index.db"),
	}, resp.Data)
}

func TestPaths_Text(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	res := runCLI(t, dir, "", "paths")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "receipts: "+filepath.Join(dir, "receipts.jsonl"))
	assert.Contains(t, res.stdout, "errors:   "+filepath.Join(dir, "errors.jsonl"))
}

func TestConfigFileAndEnvPrecedence(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "minelog.yaml")
	writeFile(t, cfgPath, "data_dir: "+filepath.Join(tmp, "from-file")+"\nindex:\n  path: "+filepath.Join(tmp, "file.db")+"\n")

	// flag beats file
	res := runCLI(t, filepath.Join(tmp, "from-flag"), "", "--config", cfgPath, "--format", "json", "paths")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, filepath.Join(tmp, "from-flag"))
	assert.Contains(t, res.stdout, filepath.Join(tmp, "file.db"))
}

func TestEnvOverridesFile(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "minelog.toml")
	writeFile(t, cfgPath, "data_dir = \""+filepath.Join(tmp, "from-file")+"\"\n")

	isolateEnv(t)
	t.Setenv("MINELOG_INDEX_PATH", filepath.Join(tmp, "env.db"))

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "--format", "json", "paths"})
	require.NoError(t, cmd.Execute())

	var resp struct {
		Data PathsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, filepath.Join(tmp, "from-file"), resp.Data.DataDir)
	assert.Equal(t, filepath.Join(tmp, "env.db"), resp.Data.Index)
}

func TestMissingConfigFile(t *testing.T) {
	res := runCLI(t, t.TempDir(), "", "--config", "/nonexistent/minelog.yaml", "paths")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.stdout, "Error [E001]")
}

func TestDataDirUnderRegularFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	writeFile(t, file, "x")

	res := runCLI(t, filepath.Join(file, "data"), "", "receipts")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.err.Error(), "failed to open log store")
}
