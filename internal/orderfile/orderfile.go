// Package orderfile reads and writes order batches as JSON lines, one object
// per line. Files ending in .gz are transparently (de)compressed.
package orderfile

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/petrobahia/internal/domain/order"
)

const maxLineBytes = 1 << 20

// LineError reports an undecodable line.
type LineError struct {
	Path string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Decode reads order requests from r. Blank lines are skipped.
func Decode(ctx context.Context, name string, r io.Reader) ([]order.Request, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		reqs []order.Request
		line int
	)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line++
		data := scanner.Bytes()
		if len(bytes.TrimSpace(data)) == 0 {
			continue
		}
		var req order.Request
		if err := req.Decode(jx.DecodeBytes(data)); err != nil {
			return nil, &LineError{Path: name, Line: line, Err: err}
		}
		reqs = append(reqs, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "scan %s", name)
	}
	return reqs, nil
}

// ReadFile reads order requests from path.
func ReadFile(ctx context.Context, path string) ([]order.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}
	return Decode(ctx, path, r)
}

// ReadFiles reads every path concurrently and concatenates the requests in
// argument order.
func ReadFiles(ctx context.Context, paths []string) ([]order.Request, error) {
	perFile := make([][]order.Request, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			reqs, err := ReadFile(ctx, path)
			if err != nil {
				return err
			}
			perFile[i] = reqs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []order.Request
	for _, reqs := range perFile {
		out = append(out, reqs...)
	}
	return out, nil
}

// Encode writes one JSON line per result to w.
func Encode(w io.Writer, results []order.Result) error {
	bw := bufio.NewWriter(w)
	for _, res := range results {
		var e jx.Encoder
		res.Encode(&e)
		if _, err := bw.Write(e.Bytes()); err != nil {
			return errors.Wrap(err, "write result")
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "write result")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flush results")
	}
	return nil
}

// WriteFile writes results to path, gzip-compressed when path ends in .gz.
func WriteFile(path string, results []order.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	if !strings.HasSuffix(path, ".gz") {
		return Encode(f, results)
	}
	gz := pgzip.NewWriter(f)
	if err := Encode(gz, results); err != nil {
		_ = gz.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		return errors.Wrapf(err, "close gzip writer for %s", path)
	}
	return nil
}
