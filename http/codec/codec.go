package codec

import (
	"io"
)

// Codec produces compressor instances of a single content coding. Instances aren't safe
// for concurrent use, therefore every connection must obtain its own via New.
type Codec interface {
	// Token returns a coding token associated with the codec itself.
	Token() string
	New() Compressor
}

type Compressor interface {
	io.WriteCloser
	// ResetCompressor redirects the output into w, discarding any state of a previous
	// stream. Close must be called to flush the footer.
	ResetCompressor(w io.Writer)
}

// AppendWriter is an io.Writer appending everything written into a byte slice.
type AppendWriter struct {
	Buff []byte
}

func (a *AppendWriter) Write(p []byte) (int, error) {
	a.Buff = append(a.Buff, p...)
	return len(p), nil
}

// Encode compresses src with the compressor, appending the result to dst.
func Encode(c Compressor, dst, src []byte) ([]byte, error) {
	w := &AppendWriter{Buff: dst}
	c.ResetCompressor(w)

	if _, err := c.Write(src); err != nil {
		return dst, err
	}

	if err := c.Close(); err != nil {
		return dst, err
	}

	return w.Buff, nil
}
