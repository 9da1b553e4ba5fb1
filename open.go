package interpolatecm

import (
	"context"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4"
)

// IsStdStream reports whether path means stdin or stdout.
func IsStdStream(path string) bool {
	return path == "" || path == "-"
}

// NeedsGoogleStorage reports whether any of the paths is a gs:// object, so
// that callers only build a storage client when one is needed.
func NeedsGoogleStorage(paths ...string) bool {
	for _, p := range paths {
		if IsGoogleStoragePath(p) {
			return true
		}
	}
	return false
}

// Open returns a decompressing reader over a local file, a gs:// object, or
// stdin when path is empty or "-".
func Open(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	var rc io.ReadCloser
	if IsStdStream(path) {
		rc = io.NopCloser(os.Stdin)
	} else {
		f, _, err := MaybeOpenSeekerFromGoogleStorage(ctx, path, client)
		if err != nil {
			return nil, pfx.Err(err)
		}
		rc = f
	}

	out, _, err := MaybeDecompressReadCloser(rc)
	if err != nil {
		rc.Close()
		return nil, pfx.Err(err)
	}

	return out, nil
}

// Create opens path for writing, or stdout when path is empty or "-". Paths
// ending in .gz are gzip compressed and paths ending in .lz4 are lz4
// compressed. Close flushes the compressor before closing the file.
func Create(path string) (io.WriteCloser, error) {
	if IsStdStream(path) {
		return nopWriteCloser{os.Stdout}, nil
	}

	f, err := os.Create(ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		return &chainedWriteCloser{Writer: gzip.NewWriter(f), file: f}, nil
	case strings.HasSuffix(path, ".lz4"):
		return &chainedWriteCloser{Writer: lz4.NewWriter(f), file: f}, nil
	}

	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type chainedWriteCloser struct {
	io.Writer
	file *os.File
}

func (c *chainedWriteCloser) Close() error {
	if closer, ok := c.Writer.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			c.file.Close()
			return err
		}
	}
	return c.file.Close()
}
