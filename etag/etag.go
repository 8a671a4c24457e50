// Package etag computes AWS S3 style ETags for local files.
//
// Files at or below the threshold are digested in one shot and the
// ETag is the plain MD5 of the content. Larger files are digested the
// way S3 checksums multipart uploads: the file is split into chunks,
// each chunk is MD5'd, and the raw part digests are MD5'd again to
// form `<hex>-<count>`.
package etag

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// A FileError wraps the OS error for a file that could not be
// stat'd, opened, or read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *FileError) Unwrap() error { return e.Err }

// Errno returns the OS error number underlying the failure, or -1 if
// there is none.
func (e *FileError) Errno() int {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return int(errno)
	}
	return -1
}

// Calculate computes the S3 ETag of the named file. Files larger than
// threshold are digested in chunks of chunksize bytes, which must be
// positive in that case.
func Calculate(name string, threshold, chunksize int64) (string, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return "", &FileError{Path: name, Err: err}
	}
	if fi.Size() <= threshold {
		return sumWhole(name)
	}
	if chunksize <= 0 {
		return "", fmt.Errorf("etag: non-positive chunksize: %d", chunksize)
	}
	return sumParts(name, chunksize)
}

func sumWhole(name string) (string, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return "", &FileError{Path: name, Err: err}
	}
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:]), nil
}

func sumParts(name string, chunksize int64) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", &FileError{Path: name, Err: err}
	}
	defer f.Close()

	whole := md5.New()
	empty := md5.Sum(nil)
	last := empty[:] // part digest of the most recent chunk
	buf := make([]byte, 32*1024)
	count := 0
	for {
		part := md5.New()
		n, err := io.CopyBuffer(part, io.LimitReader(f, chunksize), buf)
		if err != nil {
			return "", &FileError{Path: name, Err: err}
		}
		if n == 0 {
			break
		}
		count++
		last = part.Sum(nil)
		whole.Write(last)
	}
	// A single chunk means the part digest covers the whole content:
	// report it bare, same as the single-shot mode would.
	if count <= 1 {
		return hex.EncodeToString(last), nil
	}
	return fmt.Sprintf("%x-%d", whole.Sum(nil), count), nil
}
