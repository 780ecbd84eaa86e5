package compressor

import (
	"bytes"
	"io"

	"redisdict/registry"

	"github.com/klauspost/compress/s2"
	"github.com/pkg/errors"
)

type Compressor interface {
	Name() string

	Compress(src io.Reader, dst io.Writer) error
	Decompress(src io.Reader, dst io.Writer) error
}

var (
	Snappy2Name = "_s2"
	NoopName    = "_none"
)

var (
	s2compressor   Compressor = &Snappy2Compressor{}
	noopcompressor Compressor = &NoopCompressor{}
)

var r = registry.New[Compressor]()

func init() {
	r.MustRegister(s2compressor, noopcompressor)
}

// Register add a compressor that codecs can refer to by name
func Register(c Compressor) error {
	return r.Register(c)
}

// Get get compressor by name
func Get(name string) (Compressor, bool) {
	return r.Get(name)
}

// Names list registered compressor names
func Names() []string {
	return r.Names()
}

// CompressBytes run c over b
func CompressBytes(c Compressor, b []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Compress(bytes.NewReader(b), &buf); err != nil {
		return nil, errors.Wrapf(err, "compress with %s fail", c.Name())
	}

	return buf.Bytes(), nil
}

// DecompressBytes reverse CompressBytes
func DecompressBytes(c Compressor, b []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Decompress(bytes.NewReader(b), &buf); err != nil {
		return nil, errors.Wrapf(err, "decompress with %s fail", c.Name())
	}

	return buf.Bytes(), nil
}

// ====== snappy2 ========

type Snappy2Compressor struct{}

func (sc *Snappy2Compressor) Name() string {
	return Snappy2Name
}

func (sc *Snappy2Compressor) Compress(src io.Reader, dst io.Writer) error {
	enc := s2.NewWriter(dst)
	_, err := io.Copy(enc, src)
	if err != nil {
		enc.Close()
		return err
	}

	return enc.Close()
}

func (sc *Snappy2Compressor) Decompress(src io.Reader, dst io.Writer) error {
	dec := s2.NewReader(src)
	_, err := io.Copy(dst, dec)
	return err
}

// ========= noop ==========

// NoopCompressor copies bytes as is
type NoopCompressor struct{}

func (nc *NoopCompressor) Name() string {
	return NoopName
}

func (nc *NoopCompressor) Compress(src io.Reader, dst io.Writer) error {
	_, err := io.Copy(dst, src)
	return err
}

func (nc *NoopCompressor) Decompress(src io.Reader, dst io.Writer) error {
	_, err := io.Copy(dst, src)
	return err
}
