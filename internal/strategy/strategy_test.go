package strategy

import (
	"context"
	"errors"
	"math"
	"os"
	"reflect"
	"testing"

	"github.com/agbru/parbench/internal/kernel"
	"github.com/agbru/parbench/internal/partition"
	"github.com/agbru/parbench/internal/worker"
)

// TestMain lets the process-pool strategies re-execute the test binary as a
// worker.
func TestMain(m *testing.M) {
	if worker.IsWorkerProcess() {
		os.Exit(worker.Main())
	}
	os.Exit(m.Run())
}

func run(t *testing.T, kind Kind, k kernel.Kernel, opts Options) kernel.Result {
	t.Helper()
	s, err := New(kind)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	exec, err := s.Prepare(ctx, k, opts)
	if err != nil {
		t.Fatalf("%v: Prepare: %v", kind, err)
	}
	defer func() {
		if err := exec.Close(); err != nil {
			t.Errorf("%v: Close: %v", kind, err)
		}
	}()
	res, err := exec.Run(ctx)
	if err != nil {
		t.Fatalf("%v: Run: %v", kind, err)
	}
	return res
}

func kindsUnderTest(t *testing.T) []Kind {
	if testing.Short() {
		return []Kind{Serial, Compiled, DataParallel, ThreadPool, ThreadPoolCompiled}
	}
	return AllKinds()
}

func TestMandelbrotGridsIdenticalAcrossStrategies(t *testing.T) {
	k, err := kernel.NewMandelbrot(kernel.BoundingBox{X0: -2.5, Y0: -1.5, X1: 1.5, Y1: 1.5}, 40, 30, 250)
	if err != nil {
		t.Fatal(err)
	}
	want := run(t, Serial, k, Options{Workers: 1}).(*kernel.PixelGrid)

	for _, kind := range kindsUnderTest(t) {
		for _, w := range []int{1, 3, 4} {
			got := run(t, kind, k, Options{Workers: w}).(*kernel.PixelGrid)
			if !got.Equal(want) {
				t.Errorf("%v with %d workers: grid differs from serial", kind, w)
			}
		}
	}
}

func TestPiStrategiesAgree(t *testing.T) {
	const samples = 200_000
	k, err := kernel.NewPi(samples)
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Workers: 4, Seed: 2024}

	serial := run(t, Serial, k, opts).(kernel.PiEstimate)
	if math.Abs(serial.Estimate-math.Pi) > 0.02 {
		t.Errorf("serial estimate %v too far from pi", serial.Estimate)
	}
	if again := run(t, Compiled, k, opts).(kernel.PiEstimate); again != serial {
		t.Errorf("compiled = %+v, serial = %+v; one range with the same seed must match", again, serial)
	}

	// Strategies using the same partition draw from the same streams, so
	// their hit counts are identical whatever the execution context.
	var ref *kernel.PiEstimate
	for _, kind := range kindsUnderTest(t) {
		if kind == Serial || kind == Compiled {
			continue
		}
		got := run(t, kind, k, opts).(kernel.PiEstimate)
		if got.N != samples {
			t.Errorf("%v: N = %d, want %d", kind, got.N, samples)
		}
		if ref == nil {
			ref = &got
			continue
		}
		if got != *ref {
			t.Errorf("%v = %+v, want %+v", kind, got, *ref)
		}
	}
	if ref != nil && math.Abs(ref.Estimate-serial.Estimate) > 0.01 {
		t.Errorf("parallel estimate %v disagrees with serial %v", ref.Estimate, serial.Estimate)
	}
}

func TestRunIsRepeatable(t *testing.T) {
	t.Parallel()
	k, err := kernel.NewPi(10_000)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := New(ThreadPoolCompiled)
	exec, err := s.Prepare(context.Background(), k, Options{Workers: 3, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer exec.Close()
	first, err := exec.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := exec.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("runs differ: %v vs %v", first, second)
	}
}

func TestPrepareRejectsInvalidWorkers(t *testing.T) {
	t.Parallel()
	k, err := kernel.NewPi(100)
	if err != nil {
		t.Fatal(err)
	}
	for _, kind := range []Kind{DataParallel, ThreadPool, ProcessPoolCompiled} {
		s, _ := New(kind)
		if _, err := s.Prepare(context.Background(), k, Options{Workers: 0}); !errors.Is(err, partition.ErrInvalidWorkers) {
			t.Errorf("%v: error = %v, want ErrInvalidWorkers", kind, err)
		}
	}
	// Serial ignores the worker count.
	s, _ := New(Serial)
	exec, err := s.Prepare(context.Background(), k, Options{})
	if err != nil {
		t.Fatalf("serial Prepare: %v", err)
	}
	exec.Close()
}

func TestRunHonoursCanceledContext(t *testing.T) {
	t.Parallel()
	k, err := kernel.NewPi(100)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, kind := range []Kind{Serial, DataParallel, ThreadPool} {
		s, _ := New(kind)
		exec, err := s.Prepare(context.Background(), k, Options{Workers: 2})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := exec.Run(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("%v: Run error = %v, want context.Canceled", kind, err)
		}
		exec.Close()
	}
}

func TestKindNamesAndForms(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kind      Kind
		name      string
		form      kernel.Form
		inProcess bool
	}{
		{Serial, "serial", kernel.Interpreted, true},
		{Compiled, "compiled", kernel.Compiled, true},
		{DataParallel, "parallel", kernel.Compiled, true},
		{ThreadPool, "threadpool", kernel.Interpreted, true},
		{ProcessPool, "processpool", kernel.Interpreted, false},
		{ThreadPoolCompiled, "threadpool-compiled", kernel.Compiled, true},
		{ProcessPoolCompiled, "processpool-compiled", kernel.Compiled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.kind.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.kind.InProcess(); got != tt.inProcess {
				t.Errorf("InProcess() = %v, want %v", got, tt.inProcess)
			}
			if got := tt.kind.Form(); got != tt.form {
				t.Errorf("Form() = %v, want %v", got, tt.form)
			}
			parsed, err := ParseKind(tt.name)
			if err != nil || parsed != tt.kind {
				t.Errorf("ParseKind(%q) = %v, %v", tt.name, parsed, err)
			}
		})
	}
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Errorf("unknown kind String() = %q", got)
	}
}

func TestParseKindAliases(t *testing.T) {
	t.Parallel()
	tests := map[string]Kind{
		"JIT":            Compiled,
		"SERIAL":         Serial,
		"ThreadPoolJIT":  ThreadPoolCompiled,
		"processpooljit": ProcessPoolCompiled,
		" parallel ":     DataParallel,
	}
	for name, want := range tests {
		if got, err := ParseKind(name); err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", name, got, err, want)
		}
	}
	if _, err := ParseKind("gpu"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("ParseKind(gpu) error = %v, want ErrUnknownStrategy", err)
	}
}

func TestDefaultFactory(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	want := []string{"serial", "compiled", "parallel", "threadpool", "processpool", "threadpool-compiled", "processpool-compiled"}
	if got := f.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	all := f.GetAll()
	if len(all) != len(want) {
		t.Fatalf("GetAll() returned %d strategies", len(all))
	}
	for i, s := range all {
		if s.Kind().String() != want[i] {
			t.Errorf("GetAll()[%d] = %v, want %s", i, s.Kind(), want[i])
		}
		if s.Name() == "" {
			t.Errorf("%v has an empty name", s.Kind())
		}
	}

	s, err := f.Get("jit")
	if err != nil || s.Kind() != Compiled {
		t.Errorf("Get(jit) = %v, %v", s, err)
	}
	if _, err := f.Get("nope"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Get(nope) error = %v", err)
	}

	empty := NewFactory()
	if _, err := empty.Get("serial"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Get on empty factory = %v", err)
	}
	sv, _ := New(Serial)
	empty.Register(sv)
	if got := empty.List(); !reflect.DeepEqual(got, []string{"serial"}) {
		t.Errorf("List() after Register = %v", got)
	}
}
