package fsxlocal

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/Abraxas-365/skillpath/pkg/fsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileSystem_RoundTrip(t *testing.T) {
	ctx := context.Background()
	l := NewLocalFileSystem(t.TempDir())
	p := l.Join("resumes", "user-1", "2026", "01", "cv.txt")

	require.NoError(t, l.WriteFile(ctx, p, []byte("python")))

	ok, err := l.Exists(ctx, p)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := l.ReadFile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "python", string(data))

	require.NoError(t, l.WriteFileStream(ctx, p, bytes.NewBufferString("go")))
	rc, err := l.ReadFileStream(ctx, p)
	require.NoError(t, err)
	streamed, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "go", string(streamed))

	require.NoError(t, l.DeleteFile(ctx, p))
	require.NoError(t, l.DeleteFile(ctx, p))

	_, err = l.ReadFile(ctx, p)
	assert.ErrorIs(t, err, fsx.ErrNotExist)
}

func TestLocalFileSystem_StaysBelowRoot(t *testing.T) {
	root := t.TempDir()
	l := NewLocalFileSystem(root)

	assert.Equal(t, root+"/etc/passwd", l.abs("../../etc/passwd"))
}
