package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/df07/go-orbit-raytracer/pkg/renderer"
	"github.com/klauspost/compress/gzip"
)

// Config describes where and how frames are written
type Config struct {
	Dir       string // Output directory, created if missing
	Format    Format
	Gzip      bool // Compress each file and append ".gz"
	GzipLevel int  // gzip level; 0 means gzip.DefaultCompression. Set Gzip to false for uncompressed files.
}

// DefaultConfig writes plain-text PPM frames to ./out
func DefaultConfig() Config {
	return Config{
		Dir:    "out",
		Format: FormatPPM,
	}
}

// Sink writes numbered frames into a directory
type Sink struct {
	config   Config
	gzipPool sync.Pool
}

// NewSink validates the configuration and creates the output directory
func NewSink(config Config) (*Sink, error) {
	if config.Format == "" {
		config.Format = FormatPPM
	}
	format, err := ParseFormat(string(config.Format))
	if err != nil {
		return nil, err
	}
	config.Format = format
	if config.GzipLevel == 0 {
		config.GzipLevel = gzip.DefaultCompression
	}
	if config.Gzip {
		// Reject a bad level before any frame is rendered
		if _, err := gzip.NewWriterLevel(io.Discard, config.GzipLevel); err != nil {
			return nil, fmt.Errorf("gzip level %d: %w", config.GzipLevel, err)
		}
	}
	if err := os.MkdirAll(config.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", config.Dir, err)
	}

	s := &Sink{config: config}
	s.gzipPool.New = func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, config.GzipLevel)
		return w
	}
	return s, nil
}

// FrameName returns the file name for a frame, e.g. frame_007.ppm
func FrameName(index int, format Format, compressed bool) string {
	name := fmt.Sprintf("frame_%03d.%s", index, format.Extension())
	if compressed {
		name += ".gz"
	}
	return name
}

// Path returns the full path a frame is written to
func (s *Sink) Path(index int) string {
	return filepath.Join(s.config.Dir, FrameName(index, s.config.Format, s.config.Gzip))
}

// WriteFrame encodes frame into its numbered file and returns the path
func (s *Sink) WriteFrame(index int, frame *renderer.Frame) (string, error) {
	path := s.Path(index)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	// A partial file must not look like a finished frame
	if err := s.encode(file, frame); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

func (s *Sink) encode(w io.Writer, frame *renderer.Frame) error {
	if !s.config.Gzip {
		return Encode(w, frame, s.config.Format)
	}

	zw := s.gzipPool.Get().(*gzip.Writer)
	defer s.gzipPool.Put(zw)
	zw.Reset(w)

	if err := Encode(zw, frame, s.config.Format); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
