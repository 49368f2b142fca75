package filesystem

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockFileSystem_WriteRequiresParent(t *testing.T) {
	mfs := NewMockFileSystem()

	err := mfs.WriteFile("/nowhere/file.txt", []byte("x"), 0644)
	require.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, mfs.WriteFile("/workspace/file.txt", []byte("x"), 0644))
	require.True(t, IsFile(mfs, "/workspace/file.txt"))
	require.False(t, IsFile(mfs, "/workspace"))
	require.False(t, IsFile(mfs, ""))
}

func TestMockFileSystem_RenameReplaces(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFile("/workspace/a.sln", []byte("old"))
	mfs.AddFile("/workspace/.a.sln.tmp", []byte("new"))

	require.NoError(t, mfs.Rename("/workspace/.a.sln.tmp", "/workspace/a.sln"))
	require.Equal(t, []byte("new"), mfs.Content("/workspace/a.sln"))
	require.False(t, mfs.Exists("/workspace/.a.sln.tmp"))

	require.ErrorIs(t, mfs.Rename("/workspace/missing", "/workspace/a.sln"), fs.ErrNotExist)
}

func TestMockFileSystem_WalkDirSkipDir(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFile("/repo/a/one.csproj", nil)
	mfs.AddFile("/repo/bin/two.csproj", nil)
	mfs.AddFile("/repo/c.csproj", nil)

	var visited []string
	err := mfs.WalkDir("/repo", func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() && d.Name() == "bin" {
			return filepath.SkipDir
		}
		visited = append(visited, path)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/repo", "/repo/a", "/repo/a/one.csproj", "/repo/c.csproj"}, visited)
}

func TestAbs(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.SetCurrentDir("/repo/sub")

	got, err := Abs(mfs, "../All.sln")
	require.NoError(t, err)
	require.Equal(t, "/repo/All.sln", got)

	got, err = Abs(mfs, "/abs/x.sln")
	require.NoError(t, err)
	require.Equal(t, "/abs/x.sln", got)
}
