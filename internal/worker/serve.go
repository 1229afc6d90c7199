package worker

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/agbru/parbench/internal/kernel"
	"github.com/agbru/parbench/internal/logging"
)

// EnvWorker marks a process started as a pool worker.
const EnvWorker = "PARBENCH_WORKER"

// Logging settings handed from the parent to its workers.
const (
	EnvLogLevel  = "PARBENCH_LOG_LEVEL"
	EnvLogFormat = "PARBENCH_LOG_FORMAT"
	EnvNoColor   = "NO_COLOR"
)

// IsWorkerProcess reports whether the current process was started as a
// worker. main checks it before parsing any flags.
func IsWorkerProcess() bool {
	return os.Getenv(EnvWorker) == "1"
}

// Main serves requests on stdin/stdout until the parent closes stdin and
// returns the process exit code.
func Main() int {
	logger := newLogger(os.Stderr, os.Getenv)
	if err := Serve(os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("worker stopped", err, logging.Int("pid", os.Getpid()))
		return 1
	}
	return 0
}

// newLogger builds the worker logger from the settings the parent passed in
// the environment. Without them it logs at warn level.
func newLogger(w io.Writer, getenv func(string) string) logging.Logger {
	return logging.New(w, "worker", getenv(EnvLogFormat), getenv(EnvLogLevel), getenv(EnvNoColor) != "")
}

// Serve decodes requests from r and writes one response per request to w.
// It returns nil when r reaches EOF. The kernel is rebuilt only when the
// requested Spec changes.
func Serve(r io.Reader, w io.Writer, logger logging.Logger) error {
	dec := gob.NewDecoder(bufio.NewReader(r))
	bw := bufio.NewWriter(w)
	enc := gob.NewEncoder(bw)
	s := &server{logger: logger}

	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("worker: decode request: %w", err)
		}
		resp := s.handle(&req)
		if err := enc.Encode(&resp); err != nil {
			return fmt.Errorf("worker: encode response: %w", err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("worker: flush response: %w", err)
		}
	}
}

type server struct {
	logger logging.Logger
	spec   kernel.Spec
	k      kernel.Kernel
}

func (s *server) kernelFor(spec kernel.Spec) (kernel.Kernel, error) {
	if s.k != nil && s.spec == spec {
		return s.k, nil
	}
	k, err := kernel.New(spec)
	if err != nil {
		return nil, err
	}
	s.k, s.spec = k, spec
	s.logger.Debug("kernel built", logging.String("kernel", k.Name()), logging.Int("size", k.Size()))
	return k, nil
}

func (s *server) handle(req *Request) (resp Response) {
	resp.ID = req.ID
	defer func() {
		if r := recover(); r != nil {
			resp.Partial = kernel.Partial{}
			resp.Err = fmt.Sprintf("panic: %v", r)
		}
	}()

	k, err := s.kernelFor(req.Spec)
	if err != nil {
		resp.Err = err.Error()
		return resp
	}
	switch req.Op {
	case OpWarm:
		k.Warmup(req.Form)
	case OpRun:
		resp.Partial = kernel.Execute(k.Program(req.Form), req.Range, req.Seed, req.Stream)
	default:
		resp.Err = fmt.Sprintf("unknown operation %v", req.Op)
	}
	return resp
}
