package ocr

import (
	"context"
	"errors"
	"testing"
)

type fakeEngine struct {
	batch bool
	calls int
	err   error
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, in Input) (Result, error) {
	f.calls++
	if f.err != nil {
		return Result{}, f.err
	}
	return Result{InputID: in.ID, PlainText: "ok"}, nil
}

type fakeBatchEngine struct{ fakeEngine }

func (f *fakeBatchEngine) RecognizeBatch(_ context.Context, inputs []Input) ([]Result, error) {
	f.batch = true
	out := make([]Result, len(inputs))
	for i, in := range inputs {
		out[i] = Result{InputID: in.ID}
	}
	return out, nil
}

func TestRecognizeSequential(t *testing.T) {
	e := &fakeEngine{}
	results, err := Recognize(context.Background(), e, []Input{{ID: "page-1"}, {ID: "page-2"}})
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if len(results) != 2 || e.calls != 2 {
		t.Fatalf("expected 2 sequential calls, got %d results / %d calls", len(results), e.calls)
	}
	if results[0].InputID != "page-1" || results[1].InputID != "page-2" {
		t.Fatalf("order not preserved: %+v", results)
	}
}

func TestRecognizePrefersBatch(t *testing.T) {
	e := &fakeBatchEngine{}
	if _, err := Recognize(context.Background(), e, []Input{{ID: "page-1"}}); err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if !e.batch || e.calls != 0 {
		t.Fatalf("batch path not taken: batch=%v calls=%d", e.batch, e.calls)
	}
}

func TestRecognizeWrapsPageError(t *testing.T) {
	want := errors.New("boom")
	_, err := Recognize(context.Background(), &fakeEngine{err: want}, []Input{{ID: "page-1"}})
	if !errors.Is(err, want) {
		t.Fatalf("expected wrapped engine error, got %v", err)
	}
}

func TestDefaultEngineRegistry(t *testing.T) {
	orig := DefaultEngine()
	defer SetDefaultEngine(orig)

	e := &fakeEngine{}
	SetDefaultEngine(e)
	if DefaultEngine() != Engine(e) {
		t.Fatalf("SetDefaultEngine did not take effect")
	}
}
