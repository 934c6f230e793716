package instance

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipvault.lock")

	g, err := Acquire(path)
	require.NoError(t, err)
	require.NotNil(t, g)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	g.Release()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "lock file should be removed on release")
}

func TestSecondAcquireFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipvault.lock")

	first, err := Acquire(path)
	require.NoError(t, err)
	defer first.Release()

	// flock/LockFileEx exclusivity is per open descriptor, so a second
	// acquire within the same process contends the same way a second
	// process would.
	second, err := Acquire(path)
	require.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Nil(t, second)
}

func TestReacquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipvault.lock")

	g, err := Acquire(path)
	require.NoError(t, err)
	g.Release()

	g2, err := Acquire(path)
	require.NoError(t, err)
	g2.Release()
}

func TestReleaseTwiceIsSafe(t *testing.T) {
	g, err := Acquire(filepath.Join(t.TempDir(), "clipvault.lock"))
	require.NoError(t, err)
	g.Release()
	g.Release()
}

func TestAcquireCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "clipvault.lock")
	g, err := Acquire(path)
	require.NoError(t, err)
	g.Release()
}

func TestDefaultPathIsStable(t *testing.T) {
	assert.Equal(t, DefaultPath(), DefaultPath())
	assert.NotEmpty(t, DefaultPath())
}
