package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirs(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a", "b", "user_db.json")

	require.NoError(t, EnsureParentDir(path))

	fi, err := os.Stat(filepath.Join(tmp, "a", "b"))
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_db.json")
	require.NoError(t, EnsureParentDir(path))
	require.NoError(t, EnsureParentDir(path))
}

func TestEnsureParentDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := EnsureParentDir(filepath.Join(blocker, "user_db.json"))
	require.Error(t, err, "should fail when a file sits where the directory should be")
}

func TestWriteFileAtomic_CreatesAndOverwrites(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "user_db.json")

	require.NoError(t, WriteFileAtomic(path, []byte("{}"), 0o600))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{}", string(got))

	require.NoError(t, WriteFileAtomic(path, []byte(`{"alice":{}}`), 0o600))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `{"alice":{}}`, string(got))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}
}

func TestMoveAside_WritesBackupAndRemovesOriginal(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "user_db.json")
	backup := filepath.Join(tmp, "user_db_backup.json")

	require.NoError(t, os.WriteFile(backup, []byte("older backup"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	require.NoError(t, MoveAside(path, backup, []byte("{broken")))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	got, err := os.ReadFile(backup)
	require.NoError(t, err)
	require.Equal(t, "{broken", string(got), "backup must be overwritten, not appended")
}

func TestMoveAside_MissingOriginalIsFine(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, MoveAside(filepath.Join(tmp, "gone.json"), filepath.Join(tmp, "b.json"), []byte("x")))
}
