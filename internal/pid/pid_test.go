package pid

import (
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"testing"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempDir(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Setenv("TMP", t.TempDir())
		return
	}
	t.Setenv("TMPDIR", t.TempDir())
}

func TestWriteAndRemove(t *testing.T) {
	useTempDir(t)

	require.NoError(t, Write())

	data, err := os.ReadFile(Path())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	// Rewriting our own file is allowed.
	require.NoError(t, Write())

	require.NoError(t, Remove())
	assert.NoFileExists(t, Path())

	require.NoError(t, Remove())
}

func TestWriteAlreadyRunning(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("signal 0 probing is Unix only")
	}
	useTempDir(t)

	// Our parent is alive for the duration of the test.
	require.NoError(t, os.WriteFile(Path(), []byte(strconv.Itoa(os.Getppid())), 0o600))

	err := Write()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
	assert.Contains(t, err.Error(), "Another instance is already running")

	// Not ours, so it stays.
	require.NoError(t, Remove())
	assert.FileExists(t, Path())
}

func TestWriteReplacesStaleFile(t *testing.T) {
	useTempDir(t)

	cmd := exec.Command(os.Args[0], "-test.run=^$")
	require.NoError(t, cmd.Run())
	stale := cmd.ProcessState.Pid()

	require.NoError(t, os.WriteFile(Path(), []byte(strconv.Itoa(stale)+"\n"), 0o600))
	require.NoError(t, Write())

	data, err := os.ReadFile(Path())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))
}

func TestWriteReplacesGarbage(t *testing.T) {
	useTempDir(t)

	require.NoError(t, os.WriteFile(Path(), []byte("not a pid"), 0o600))
	require.NoError(t, Write())
}
