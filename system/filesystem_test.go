package system

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSystem_Open_Success(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "schema-lint.yaml")
	testContent := []byte("extends: recommended\n")
	err := os.WriteFile(testFile, testContent, 0o644)
	require.NoError(t, err, "should create test file")

	fsys := &FileSystem{}
	file, err := fsys.Open(testFile)

	require.NoError(t, err, "should open file successfully")
	require.NotNil(t, file, "should return non-nil file")
	defer file.Close()

	// Verify file can be read
	content := make([]byte, len(testContent))
	n, err := file.Read(content)
	require.NoError(t, err, "should read file content")
	assert.Equal(t, len(testContent), n, "should read correct number of bytes")
	assert.Equal(t, testContent, content, "should read correct content")
}

func TestFileSystem_Open_Error(t *testing.T) {
	t.Parallel()

	fsys := &FileSystem{}
	file, err := fsys.Open(filepath.Join(t.TempDir(), "missing.yaml"))

	require.ErrorIs(t, err, fs.ErrNotExist, "should return error for nonexistent file")
	assert.Nil(t, file, "should return nil file on error")
}

func TestFileSystem_ImplementsInterfaces(t *testing.T) {
	t.Parallel()

	fsys := &FileSystem{}

	// Test VirtualFS interface
	var _ VirtualFS = fsys
	var _ fs.FS = fsys
}
