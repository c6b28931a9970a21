package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// Stream is an opened source. Reads return decompressed CSV bytes.
type Stream struct {
	io.Reader

	// Size is the compressed length in bytes, or -1 when unknown.
	Size int64

	counter *countingReader
	closers []io.Closer
}

// BytesRead returns the number of compressed bytes consumed so far.
func (s *Stream) BytesRead() int64 {
	return s.counter.n
}

// Close releases the decompressor and the underlying file or response body.
func (s *Stream) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Opener opens source locations.
type Opener struct {
	client *http.Client
}

// NewOpener returns an Opener using client for HTTP locations.
// A nil client means http.DefaultClient.
func NewOpener(client *http.Client) *Opener {
	if client == nil {
		client = http.DefaultClient
	}
	return &Opener{client: client}
}

// Open opens location, which is an http(s) URL, a file:// URL or a local path.
// Locations ending in .gz are decompressed.
func (o *Opener) Open(ctx context.Context, location string) (*Stream, error) {
	var (
		raw  io.ReadCloser
		size int64 = -1
		err  error
	)

	switch {
	case strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://"):
		raw, size, err = o.get(ctx, location)
	case strings.HasPrefix(location, "file://"):
		var u *url.URL
		u, err = url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid source %q: %w: %w", location, err, taxiload.ErrSourceRead)
		}
		raw, size, err = openFile(u.Path)
	default:
		raw, size, err = openFile(location)
	}
	if err != nil {
		return nil, err
	}

	counter := &countingReader{r: raw}
	stream := &Stream{Reader: counter, Size: size, counter: counter, closers: []io.Closer{raw}}

	if strings.HasSuffix(strings.ToLower(location), ".gz") {
		gz, err := gzip.NewReader(counter)
		if err != nil {
			raw.Close()
			return nil, fmt.Errorf("failed to open gzip stream %s: %w: %w", location, err, taxiload.ErrSourceRead)
		}
		stream.Reader = gz
		stream.closers = append(stream.closers, gz)
	}

	return stream, nil
}

func (o *Opener) get(ctx context.Context, location string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, -1, fmt.Errorf("invalid source URL %q: %w: %w", location, err, taxiload.ErrSourceRead)
	}
	req.Header.Set("User-Agent", taxiload.AppName)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, -1, fmt.Errorf("failed to download %s: %w: %w", location, err, taxiload.ErrSourceRead)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, -1, fmt.Errorf("failed to download %s: HTTP %s: %w", location, resp.Status, taxiload.ErrSourceRead)
	}
	return resp.Body, resp.ContentLength, nil
}

func openFile(path string) (io.ReadCloser, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, -1, fmt.Errorf("failed to open %s: %w: %w", path, err, taxiload.ErrSourceRead)
	}
	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return f, size, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
