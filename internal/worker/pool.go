package worker

import (
	"bufio"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/parbench/internal/kernel"
	"github.com/agbru/parbench/internal/logging"
	"github.com/agbru/parbench/internal/partition"
)

// ErrWorkerFailed is returned when a worker process fails to serve a request.
var ErrWorkerFailed = errors.New("worker process failed")

// Launcher builds the command of one worker process. The command's stdin and
// stdout are wired by the pool.
type Launcher func(ctx context.Context) (*exec.Cmd, error)

// SelfLauncher re-executes the current binary in worker mode.
func SelfLauncher(ctx context.Context) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	cmd := exec.CommandContext(ctx, exe)
	cmd.Env = append(os.Environ(), EnvWorker+"=1")
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// LogSettings is the logging configuration a worker inherits.
type LogSettings struct {
	Level   string
	Format  string
	NoColor bool
}

// Env returns the settings as environment entries. Later entries win over
// inherited ones.
func (s LogSettings) Env() []string {
	env := []string{EnvLogLevel + "=" + s.Level, EnvLogFormat + "=" + s.Format}
	if s.NoColor {
		env = append(env, EnvNoColor+"=1")
	}
	return env
}

// NewSelfLauncher returns a SelfLauncher whose workers log with settings.
func NewSelfLauncher(settings LogSettings) Launcher {
	return func(ctx context.Context) (*exec.Cmd, error) {
		cmd, err := SelfLauncher(ctx)
		if err != nil {
			return nil, err
		}
		cmd.Env = append(cmd.Env, settings.Env()...)
		return cmd, nil
	}
}

type proc struct {
	index int
	cmd   *exec.Cmd
	stdin io.WriteCloser
	bw    *bufio.Writer
	enc   *gob.Encoder
	dec   *gob.Decoder

	mu     sync.Mutex
	nextID uint64
}

func startProc(ctx context.Context, index int, launch Launcher) (*proc, error) {
	cmd, err := launch(ctx)
	if err != nil {
		return nil, err
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(stdin)
	return &proc{
		index: index,
		cmd:   cmd,
		stdin: stdin,
		bw:    bw,
		enc:   gob.NewEncoder(bw),
		dec:   gob.NewDecoder(bufio.NewReader(stdout)),
	}, nil
}

// call sends req and waits for its response. Requests to one process are
// serialised.
func (p *proc) call(req Request) (Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	req.ID = p.nextID
	if err := p.enc.Encode(&req); err != nil {
		return Response{}, p.fail(fmt.Errorf("send %v request: %w", req.Op, err))
	}
	if err := p.bw.Flush(); err != nil {
		return Response{}, p.fail(fmt.Errorf("send %v request: %w", req.Op, err))
	}
	var resp Response
	if err := p.dec.Decode(&resp); err != nil {
		return Response{}, p.fail(fmt.Errorf("read %v response: %w", req.Op, err))
	}
	if resp.ID != req.ID {
		return Response{}, p.fail(fmt.Errorf("response %d for request %d", resp.ID, req.ID))
	}
	if resp.Err != "" {
		return Response{}, p.fail(errors.New(resp.Err))
	}
	return resp, nil
}

func (p *proc) fail(err error) error {
	return fmt.Errorf("%w: worker %d (pid %d): %v", ErrWorkerFailed, p.index, p.cmd.Process.Pid, err)
}

func (p *proc) close() error {
	p.stdin.Close()
	if err := p.cmd.Wait(); err != nil {
		return fmt.Errorf("worker %d: %w", p.index, err)
	}
	return nil
}

// Pool is a set of long-lived worker processes. Each process serves one
// request at a time; a Pool method may be called from one goroutine at a
// time.
type Pool struct {
	procs  []*proc
	logger logging.Logger

	closeOnce sync.Once
	closeErr  error
}

// Start launches size worker processes.
//
// Parameters:
//   - ctx: Bounds the lifetime of the processes.
//   - size: The number of processes, at least 1.
//   - launch: Builds each process command; nil means SelfLauncher.
//   - logger: Receives lifecycle events.
//
// Returns:
//   - *Pool: The running pool.
//   - error: An error if any process could not be started. Processes that
//     did start are stopped before returning.
func Start(ctx context.Context, size int, launch Launcher, logger logging.Logger) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", partition.ErrInvalidWorkers, size)
	}
	if launch == nil {
		launch = SelfLauncher
	}
	if logger == nil {
		logger = logging.Nop()
	}
	p := &Pool{logger: logger}
	for i := range size {
		pr, err := startProc(ctx, i, launch)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("%w: start worker %d: %v", ErrWorkerFailed, i, err)
		}
		p.procs = append(p.procs, pr)
		logger.Debug("worker started", logging.Int("worker", i), logging.Int("pid", pr.cmd.Process.Pid))
	}
	return p, nil
}

// Size returns the number of worker processes.
func (p *Pool) Size() int { return len(p.procs) }

// Warm makes every worker build the kernel described by spec and warm up
// form.
func (p *Pool) Warm(ctx context.Context, spec kernel.Spec, form kernel.Form) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, pr := range p.procs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := pr.call(Request{Op: OpWarm, Spec: spec, Form: form})
			return err
		})
	}
	return g.Wait()
}

// Run computes one partial per range, dispatching range i to worker
// i mod Size. Partials are returned in range order. The first failure
// fails the whole run.
func (p *Pool) Run(ctx context.Context, spec kernel.Spec, form kernel.Form, ranges []partition.WorkRange, seed uint64) ([]kernel.Partial, error) {
	partials := make([]kernel.Partial, len(ranges))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		pr := p.procs[i%len(p.procs)]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resp, err := pr.call(Request{Op: OpRun, Spec: spec, Form: form, Range: r, Seed: seed, Stream: i})
			if err != nil {
				return err
			}
			partials[i] = resp.Partial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return partials, nil
}

// Close closes every worker's stdin and waits for the processes to exit.
// It is safe to call more than once.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		var errs []error
		for _, pr := range p.procs {
			if err := pr.close(); err != nil {
				errs = append(errs, err)
			}
		}
		p.closeErr = errors.Join(errs...)
		p.logger.Debug("worker pool closed", logging.Int("workers", len(p.procs)))
	})
	return p.closeErr
}
