package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/grailbio/base/traverse"

	"github.com/agbru/parbench/internal/kernel"
	"github.com/agbru/parbench/internal/logging"
	"github.com/agbru/parbench/internal/partition"
	"github.com/agbru/parbench/internal/pool"
	"github.com/agbru/parbench/internal/worker"
)

// ErrUnknownStrategy is returned for a mode name that names no strategy.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Options configures how a strategy prepares an execution.
type Options struct {
	// Workers is the pool width and partition count of parallel strategies.
	Workers int
	// Seed is the base seed every partition's random stream derives from.
	Seed uint64
	// Launcher builds worker process commands; nil re-executes the binary.
	Launcher worker.Launcher
	// Logger receives lifecycle events; nil discards them.
	Logger logging.Logger
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.Nop()
	}
	return o.Logger
}

// Strategy maps a kernel's work onto execution contexts.
type Strategy interface {
	Kind() Kind
	// Name is a human readable description shown in reports.
	Name() string
	// Prepare partitions the work and acquires the execution contexts.
	// Its cost is setup, never part of the timed run.
	Prepare(ctx context.Context, k kernel.Kernel, opts Options) (Execution, error)
}

// Execution is a prepared run of one kernel.
type Execution interface {
	// Run computes the kernel result. It may be called more than once.
	Run(ctx context.Context) (kernel.Result, error)
	// Close releases the execution contexts.
	Close() error
}

// New returns the strategy of kind.
func New(kind Kind) (Strategy, error) {
	switch kind {
	case Serial, Compiled:
		return inline{kind: kind}, nil
	case DataParallel:
		return dataParallel{}, nil
	case ThreadPool, ThreadPoolCompiled:
		return threadPool{kind: kind}, nil
	case ProcessPool, ProcessPoolCompiled:
		return processPool{kind: kind}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, kind)
}

// inline runs a single range on the calling goroutine.
type inline struct{ kind Kind }

func (s inline) Kind() Kind { return s.kind }

func (s inline) Name() string {
	if s.kind == Compiled {
		return "Serial (compiled)"
	}
	return "Serial (interpreted)"
}

func (s inline) Prepare(_ context.Context, k kernel.Kernel, opts Options) (Execution, error) {
	ranges, err := partition.Partition(k.Size(), 1)
	if err != nil {
		return nil, err
	}
	return &inlineExecution{k: k, fn: k.Program(s.kind.Form()), ranges: ranges, seed: opts.Seed}, nil
}

type inlineExecution struct {
	k      kernel.Kernel
	fn     kernel.RangeFunc
	ranges []partition.WorkRange
	seed   uint64
}

func (e *inlineExecution) Run(ctx context.Context) (kernel.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	partials := make([]kernel.Partial, len(e.ranges))
	for i, r := range e.ranges {
		partials[i] = kernel.Execute(e.fn, r, e.seed, i)
	}
	return kernel.Reduce(e.k.NewAccumulator(), partials)
}

func (e *inlineExecution) Close() error { return nil }

// dataParallel fans the ranges out to one goroutine each and reduces after
// all of them have finished.
type dataParallel struct{}

func (dataParallel) Kind() Kind   { return DataParallel }
func (dataParallel) Name() string { return "Data parallel (compiled)" }

func (dataParallel) Prepare(_ context.Context, k kernel.Kernel, opts Options) (Execution, error) {
	ranges, err := partition.Partition(k.Size(), opts.Workers)
	if err != nil {
		return nil, err
	}
	return &dataParallelExecution{k: k, fn: k.Program(kernel.Compiled), ranges: ranges, seed: opts.Seed}, nil
}

type dataParallelExecution struct {
	k      kernel.Kernel
	fn     kernel.RangeFunc
	ranges []partition.WorkRange
	seed   uint64
}

func (e *dataParallelExecution) Run(ctx context.Context) (kernel.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	partials := make([]kernel.Partial, len(e.ranges))
	if len(e.ranges) > 0 {
		err := traverse.Limit(len(e.ranges)).Each(len(e.ranges), func(i int) error {
			partials[i] = kernel.Execute(e.fn, e.ranges[i], e.seed, i)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return kernel.Reduce(e.k.NewAccumulator(), partials)
}

func (e *dataParallelExecution) Close() error { return nil }

// threadPool submits one task per range to a persistent goroutine pool.
type threadPool struct{ kind Kind }

func (s threadPool) Kind() Kind { return s.kind }

func (s threadPool) Name() string {
	return fmt.Sprintf("Thread pool (%s)", s.kind.Form())
}

func (s threadPool) Prepare(_ context.Context, k kernel.Kernel, opts Options) (Execution, error) {
	ranges, err := partition.Partition(k.Size(), opts.Workers)
	if err != nil {
		return nil, err
	}
	p, err := pool.New(opts.Workers)
	if err != nil {
		return nil, err
	}
	opts.logger().Debug("thread pool started", logging.Int("workers", p.Size()))
	return &threadPoolExecution{k: k, fn: k.Program(s.kind.Form()), ranges: ranges, seed: opts.Seed, pool: p}, nil
}

type threadPoolExecution struct {
	k      kernel.Kernel
	fn     kernel.RangeFunc
	ranges []partition.WorkRange
	seed   uint64
	pool   *pool.Pool
}

func (e *threadPoolExecution) Run(ctx context.Context) (kernel.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	futures := make([]*pool.Future[kernel.Partial], len(e.ranges))
	for i, r := range e.ranges {
		f, err := pool.Go(e.pool, func() (kernel.Partial, error) {
			return kernel.Execute(e.fn, r, e.seed, i), nil
		})
		if err != nil {
			return nil, err
		}
		futures[i] = f
	}

	var errs pool.ErrorCollector
	partials := make([]kernel.Partial, len(futures))
	for i, f := range futures {
		p, err := f.Wait()
		errs.SetError(err)
		partials[i] = p
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return kernel.Reduce(e.k.NewAccumulator(), partials)
}

func (e *threadPoolExecution) Close() error {
	e.pool.Close()
	return nil
}

// processPool sends one request per range to persistent worker processes.
type processPool struct{ kind Kind }

func (s processPool) Kind() Kind { return s.kind }

func (s processPool) Name() string {
	return fmt.Sprintf("Process pool (%s)", s.kind.Form())
}

func (s processPool) Prepare(ctx context.Context, k kernel.Kernel, opts Options) (Execution, error) {
	ranges, err := partition.Partition(k.Size(), opts.Workers)
	if err != nil {
		return nil, err
	}
	wp, err := worker.Start(ctx, opts.Workers, opts.Launcher, opts.logger())
	if err != nil {
		return nil, err
	}
	form := s.kind.Form()
	if err := wp.Warm(ctx, k.Spec(), form); err != nil {
		wp.Close()
		return nil, err
	}
	return &processPoolExecution{k: k, form: form, ranges: ranges, seed: opts.Seed, pool: wp}, nil
}

type processPoolExecution struct {
	k      kernel.Kernel
	form   kernel.Form
	ranges []partition.WorkRange
	seed   uint64
	pool   *worker.Pool
}

func (e *processPoolExecution) Run(ctx context.Context) (kernel.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	partials, err := e.pool.Run(ctx, e.k.Spec(), e.form, e.ranges, e.seed)
	if err != nil {
		return nil, err
	}
	return kernel.Reduce(e.k.NewAccumulator(), partials)
}

func (e *processPoolExecution) Close() error { return e.pool.Close() }
