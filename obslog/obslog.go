package obslog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var ErrNoSink = errors.New("no observation log available")

// Sink keeps the full observation line for each cycle.
type Sink interface {
	Write(ctx context.Context, at time.Time, line string) error
}

// FileLog appends lines to one file per UTC day, dir/YYYYMMDD.log.
type FileLog struct {
	dir  string
	lock sync.Mutex
}

func NewFileLog(dir string) (*FileLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("obs log dir: %w", err)
	}
	return &FileLog{dir: dir}, nil
}

func (f *FileLog) Path(at time.Time) string {
	return filepath.Join(f.dir, at.UTC().Format("20060102")+".log")
}

func (f *FileLog) Write(_ context.Context, at time.Time, line string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	fp, err := os.OpenFile(f.Path(at), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fp.WriteString(line + "\n"); err != nil {
		_ = fp.Close()
		return err
	}
	return fp.Close()
}

// Multi writes to every sink and joins the failures. An empty Multi fails
// with ErrNoSink.
type Multi []Sink

func (m Multi) Write(ctx context.Context, at time.Time, line string) error {
	if len(m) == 0 {
		return ErrNoSink
	}
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, at, line); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
