package codec

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

var _ Codec = gzipCodec{}

type gzipCodec struct {
	level int
}

// NewGZIP returns the gzip codec compressing at the given level. Invalid levels fall
// back to gzip.DefaultCompression.
func NewGZIP(level int) Codec {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}

	return gzipCodec{level: level}
}

func (gzipCodec) Token() string {
	return "gzip"
}

func (g gzipCodec) New() Compressor {
	// the level is validated in NewGZIP, so the error is impossible here
	w, _ := gzip.NewWriterLevel(nil, g.level)
	return &gzipCompressor{w: w}
}

type gzipCompressor struct {
	w *gzip.Writer
}

func (g *gzipCompressor) ResetCompressor(w io.Writer) {
	g.w.Reset(w)
}

func (g *gzipCompressor) Write(p []byte) (n int, err error) {
	return g.w.Write(p)
}

func (g *gzipCompressor) Close() error {
	return g.w.Close()
}
