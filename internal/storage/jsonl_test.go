package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"stableScope/internal/model"
)

func readRecords(t *testing.T, path string) []model.QuoteRecord {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var out []model.QuoteRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec model.QuoteRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		out = append(out, rec)
	}
	return out
}

func TestJsonlStorageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "quotes.jsonl")
	store := NewJsonlStorage(path)

	first := []model.QuoteRecord{{RequestID: "a", Kind: model.KindSwap, AmountOut: 997}}
	second := []model.QuoteRecord{{RequestID: "b", Kind: model.KindAmp, Amp: 100}}

	if err := store.PutQuoteBatch(context.Background(), first); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if err := store.PutQuoteBatch(context.Background(), nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if err := store.PutQuoteBatch(context.Background(), second); err != nil {
		t.Fatalf("second batch: %v", err)
	}

	got := readRecords(t, path)
	want := append(first, second...)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("records mismatch: %+v != %+v", got, want)
	}
}

func TestJSONLWriterTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.jsonl")
	if err := os.WriteFile(path, []byte("stale\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w, err := NewJSONLWriter(path, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := w.Write(model.QuoteError{Line: 3, ErrorKind: "invalid_input", Error: "boom"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := `{"line":3,"error_kind":"invalid_input","error":"boom"}` + "\n"
	if string(data) != want {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestStreamWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf)
	if err := w.Write(map[string]int{"amp": 100}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if buf.String() != "{\"amp\":100}\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestJSONLWriterFlush(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf)
	if err := w.Write(map[string]int{"line": 3}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected buffered output, got %q", buf.String())
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if buf.String() != "{\"line\":3}\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestPermanentErrors(t *testing.T) {
	w := NewStreamWriter(&bytes.Buffer{})
	err := w.Write(map[string]interface{}{"bad": make(chan int)})
	if err == nil || !IsPermanent(err) {
		t.Fatalf("expected permanent marshal error, got %v", err)
	}
	if !IsPermanent(fmt.Errorf("store: %w", Permanent(errors.New("boom")))) {
		t.Fatalf("wrapped permanent error not recognised")
	}
	if IsPermanent(errors.New("boom")) || Permanent(nil) != nil {
		t.Fatalf("unexpected permanent classification")
	}
}
