package media

import "io"

// ProgressFunc receives upload progress as a fraction in [0, 1]. Values are
// non-decreasing and the final call reports exactly 1.
type ProgressFunc func(fraction float64)

// progressReader reports read progress against a known total as the
// wrapped reader is consumed.
type progressReader struct {
	inner    io.Reader
	total    int64
	read     int64
	last     float64
	onChange ProgressFunc
}

func newProgressReader(inner io.Reader, total int64, onChange ProgressFunc) *progressReader {
	return &progressReader{inner: inner, total: total, onChange: onChange}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.inner.Read(buf)
	if n > 0 {
		p.read += int64(n)
		p.report()
	}
	if err == io.EOF {
		p.finish()
	}
	return n, err
}

func (p *progressReader) report() {
	if p.onChange == nil || p.total <= 0 {
		return
	}
	fraction := float64(p.read) / float64(p.total)
	if fraction > 1 {
		fraction = 1
	}
	if fraction > p.last {
		p.last = fraction
		p.onChange(fraction)
	}
}

// finish guarantees the terminal 1.0 report even when the declared size
// overshot the actual stream length.
func (p *progressReader) finish() {
	if p.onChange == nil || p.last >= 1 {
		return
	}
	p.last = 1
	p.onChange(1)
}
