package interpolatecm

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/krolaw/zipstream"
	"github.com/pierrec/lz4"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
	DataTypeLZ4
)

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	case DataTypeLZ4:
		return "lz4"
	}
	return "invalid"
}

// Byte code signatures from https://stackoverflow.com/a/19127748/199475 plus
// the lz4 frame magic number. Bgzip files carry the gzip signature.
var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
	DataTypeLZ4:   {0x04, 0x22, 0x4d, 0x18},
}

const sigLength = 6

// DetectDataType identifies the compression of a stream from its leading
// bytes. Streams shorter than every signature are uncompressed.
func DetectDataType(header []byte) DataType {
	for dt, sig := range byteCodeSigs {
		if len(header) >= len(sig) && bytes.Equal(header[:len(sig)], sig) {
			return dt
		}
	}

	return DataTypeNoCompression
}

// MaybeDecompressReadCloser peeks at the start of rc and, when it recognizes a
// compression signature, returns a reader that decompresses transparently.
// Closing the result closes rc. Peeking instead of seeking lets this work on
// stdin and object storage streams.
func MaybeDecompressReadCloser(rc io.ReadCloser) (io.ReadCloser, DataType, error) {
	br := bufio.NewReader(rc)
	header, err := br.Peek(sigLength)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, DataTypeInvalid, err
	}

	dt := DetectDataType(header)

	var r io.Reader
	switch dt {
	case DataTypeGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, dt, err
		}
		return &chainedReadCloser{Reader: gz, closers: []io.Closer{gz, rc}}, dt, nil
	case DataTypeZ:
		z, err := zlib.NewReader(br)
		if err != nil {
			return nil, dt, err
		}
		return &chainedReadCloser{Reader: z, closers: []io.Closer{z, rc}}, dt, nil
	case DataTypeZip:
		// Only the first member of an archive is read.
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, dt, err
		}
		r = zr
	case DataTypeBZip2:
		r = bzip2.NewReader(br)
	case DataTypeXZ:
		x, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, dt, err
		}
		r = x
	case DataTypeLZ4:
		r = lz4.NewReader(br)
	default:
		r = br
	}

	return &chainedReadCloser{Reader: r, closers: []io.Closer{rc}}, dt, nil
}

// chainedReadCloser closes every layer of a decoding stack, innermost first,
// and reports the first failure.
type chainedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *chainedReadCloser) Close() error {
	var first error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
