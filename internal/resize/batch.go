package resize

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/mediatools/internal/logging"
)

// DefaultExtensions are the file types picked up from input directories.
var DefaultExtensions = []string{"jpg", "jpeg", "png"}

// Job is one input file and where its resized copy goes.
type Job struct {
	Input  string
	Output string
}

// Result describes a finished job.
type Result struct {
	Input       string
	Output      string
	From        Geometry
	To          Geometry
	OutputBytes int64
}

// BatchOptions configures a Resizer.
type BatchOptions struct {
	Sizing      Options
	Filter      string
	JPEGQuality int
	Workers     int
	Extensions  []string
	// Progress receives one "<in> -> <out>" line per written file.
	Progress io.Writer
	Logger   *slog.Logger
}

// Resizer applies one sizing rule to a file or a directory tree.
type Resizer struct {
	sizing  Options
	scaler  *Scaler
	quality int
	workers int
	exts    map[string]struct{}
	logger  *slog.Logger

	progressMu sync.Mutex
	progress   io.Writer
}

// New validates opts and returns a Resizer.
func New(opts BatchOptions) (*Resizer, error) {
	if err := opts.Sizing.Validate(); err != nil {
		return nil, err
	}
	scaler, err := NewScaler(opts.Filter)
	if err != nil {
		return nil, err
	}
	quality := opts.JPEGQuality
	if quality == 0 {
		quality = 95
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("jpeg quality must be between 1 and 100, got %d", quality)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	extList := opts.Extensions
	if len(extList) == 0 {
		extList = DefaultExtensions
	}
	exts := make(map[string]struct{}, len(extList))
	for _, ext := range extList {
		exts[normalizeExt(ext)] = struct{}{}
	}
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	return &Resizer{
		sizing:   opts.Sizing,
		scaler:   scaler,
		quality:  quality,
		workers:  workers,
		exts:     exts,
		logger:   logging.WithComponent(opts.Logger, "resize"),
		progress: progress,
	}, nil
}

// Supported reports whether name has one of the configured extensions.
func (r *Resizer) Supported(name string) bool {
	_, ok := r.exts[normalizeExt(filepath.Ext(name))]
	return ok
}

// Plan lists the jobs for input. A file maps straight to output; a directory
// is walked recursively and each supported file lands at the same relative
// path under output.
func (r *Resizer) Plan(input, output string) ([]Job, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []Job{{Input: input, Output: output}}, nil
	}

	outAbs, _ := filepath.Abs(output)
	var jobs []Job
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(path); path != input && abs == outAbs {
				return filepath.SkipDir
			}
			return nil
		}
		if !r.Supported(d.Name()) {
			r.logger.Debug("skipping unsupported file", "path", path)
			return nil
		}
		rel, err := filepath.Rel(input, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, Job{Input: path, Output: filepath.Join(output, rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", input, err)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Input < jobs[j].Input })
	return jobs, nil
}

// Run plans and executes every job. Failed files do not stop the batch;
// their errors come back aggregated alongside the successful results.
func (r *Resizer) Run(ctx context.Context, input, output string) ([]Result, error) {
	jobs, err := r.Plan(input, output)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		r.logger.Info("no supported images found", "input", input)
		return nil, nil
	}
	r.logger.Debug("resize batch", "jobs", len(jobs), "workers", r.workers, "mode", r.sizing.Mode(), "filter", r.scaler.Filter())

	results := make([]*Result, len(jobs))
	var (
		mu   sync.Mutex
		errs *multierror.Error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.ResizeFile(job)
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", job.Input, err))
				mu.Unlock()
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	waitErr := g.Wait()

	done := make([]Result, 0, len(results))
	for _, res := range results {
		if res != nil {
			done = append(done, *res)
		}
	}
	if waitErr != nil {
		errs = multierror.Append(errs, waitErr)
	}
	return done, errs.ErrorOrNil()
}

// ResizeFile decodes job.Input, resizes it and writes job.Output, creating
// parent directories as needed.
func (r *Resizer) ResizeFile(job Job) (Result, error) {
	src, err := imaging.Open(job.Input, imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, fmt.Errorf("decode: %w", err)
	}
	bounds := src.Bounds()
	from := Geometry{Width: bounds.Dx(), Height: bounds.Dy()}
	to, err := r.sizing.Target(from)
	if err != nil {
		return Result{}, err
	}

	img, release := r.scaler.Scale(src, to)
	defer release()

	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}
	if err := imaging.Save(img, job.Output,
		imaging.JPEGQuality(r.quality),
		imaging.PNGCompressionLevel(png.BestCompression),
	); err != nil {
		return Result{}, fmt.Errorf("encode: %w", err)
	}

	res := Result{Input: job.Input, Output: job.Output, From: from, To: to}
	if info, err := os.Stat(job.Output); err == nil {
		res.OutputBytes = info.Size()
	}
	r.report(res)
	return res, nil
}

func (r *Resizer) report(res Result) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	fmt.Fprintf(r.progress, "%s -> %s\n", res.Input, res.Output)
	r.logger.Debug("resized", "input", res.Input, "from", res.From.String(), "to", res.To.String())
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
