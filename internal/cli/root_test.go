package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lexid/worker"
)

// noEnv keeps the host environment out of tests.
func noEnv(string) (string, bool) { return "", false }

// testRootOptions returns options with every nondeterministic input pinned.
// The host resolves to db1.example.com with pid 4242; clock and jitter replay
// the given values.
//
// format only sticks when a subcommand is run on its own; the root command's
// flag definitions reset it to the flag default.
func testRootOptions(format string, readings []int64, jitter ...int32) *RootOptions {
	next := 0
	return &RootOptions{
		Format:    format,
		LookupEnv: noEnv,
		Resolver:  worker.StaticResolver("db1.example.com"),
		PID:       func() int { return 4242 },
		Clock: func() int64 {
			v := readings[next]
			if next < len(readings)-1 {
				next++
			}
			return v
		},
		Jitter: func() int32 {
			v := jitter[0]
			if len(jitter) > 1 {
				jitter = jitter[1:]
			}
			return v
		},
	}
}

// execute runs a command and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "lexid", cmd.Use)
	assert.Contains(t, cmd.Long, "sort by creation time")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"new", "parse", "list", "worker"}

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

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestNewCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	newCmd, _, err := cmd.Find([]string{"new"})
	require.NoError(t, err)

	countFlag := newCmd.Flags().Lookup("count")
	require.NotNil(t, countFlag)
	assert.Equal(t, "n", countFlag.Shorthand)
	assert.Equal(t, "1", countFlag.DefValue)

	for _, name := range []string{"worker-id", "label", "db", "layout"} {
		assert.NotNil(t, newCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestListCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	listCmd, _, err := cmd.Find([]string{"list"})
	require.NoError(t, err)

	limitFlag := listCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "100", limitFlag.DefValue)

	for _, name := range []string{"db", "after", "label", "layout"} {
		assert.NotNil(t, listCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	_, err := execute(t, cmd, "--format", "invalid", "worker")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRoot_ConfigPinsWorker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("worker_id: -5\n"), 0o644))

	opts := testRootOptions("text", []int64{1})
	out, err := execute(t, newRootCommand(opts), "--config", path, "worker")
	require.NoError(t, err)
	assert.Equal(t, "worker_id: -5\nsource:    pinned\n", out)
}

func TestRoot_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout: sideways\n"), 0o644))

	opts := testRootOptions("text", []int64{1})
	out, err := execute(t, newRootCommand(opts), "--format", "json", "--config", path, "worker")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `"code": "E004"`)
}

func TestRoot_EnvOverride(t *testing.T) {
	opts := testRootOptions("text", []int64{1})
	opts.LookupEnv = func(k string) (string, bool) {
		if k == "LEXID_WORKER_ID" {
			return "77", true
		}
		return "", false
	}

	out, err := execute(t, newRootCommand(opts), "worker")
	require.NoError(t, err)
	assert.Equal(t, "worker_id: 77\nsource:    pinned\n", out)
}

func TestRoot_BadEnvOverride(t *testing.T) {
	opts := testRootOptions("text", []int64{1})
	opts.LookupEnv = func(k string) (string, bool) {
		if k == "LEXID_LAYOUT" {
			return "middle-endian", true
		}
		return "", false
	}

	_, err := execute(t, newRootCommand(opts), "worker")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
