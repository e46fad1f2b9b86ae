package csvsink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"logparse/domain"
)

func record(ip, method string) domain.LogRecord {
	return domain.LogRecord{
		IPAddr:    ip,
		Timestamp: "24/Jan/2018:00:01:12 +0300",
		Method:    method,
		Path:      "/x",
		Protocol:  "HTTP/1.0",
		Status:    "200",
		Bytes:     "4012",
		Referrer:  "http://ref",
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64), \"quoted\"",
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return rows
}

func TestHeader(t *testing.T) {
	want := []string{"source", "ip_addr", "timestamp", "method", "path", "protocol", "status", "bytes", "referrer", "user_agent"}
	if got := Header(); !reflect.DeepEqual(got, want) {
		t.Errorf("Header() = %v, want %v", got, want)
	}
}

func TestEmitEmptyDoesNotCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	sink := NewCSVSink(path)

	if err := sink.Emit(context.Background(), "a.log", nil); err != nil {
		t.Fatalf("Emit error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s not to exist, stat err = %v", path, err)
	}
}

func TestEmitHeaderOnceAcrossFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	sink := NewCSVSink(path)
	ctx := context.Background()

	if err := sink.Emit(ctx, "a.log", []domain.LogRecord{record("1.1.1.1", "GET"), record("2.2.2.2", "POST")}); err != nil {
		t.Fatalf("Emit a: %v", err)
	}
	if err := sink.Emit(ctx, "b.log", []domain.LogRecord{record("3.3.3.3", "PUT")}); err != nil {
		t.Fatalf("Emit b: %v", err)
	}

	rows := readRows(t, path)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if !reflect.DeepEqual(rows[0], Header()) {
		t.Errorf("header = %v", rows[0])
	}
	wantLead := [][2]string{{"a.log", "1.1.1.1"}, {"a.log", "2.2.2.2"}, {"b.log", "3.3.3.3"}}
	for i, w := range wantLead {
		row := rows[i+1]
		if row[0] != w[0] || row[1] != w[1] {
			t.Errorf("row %d = %v, want source=%s ip=%s", i+1, row, w[0], w[1])
		}
	}
	if got := rows[1][9]; got != record("", "").UserAgent {
		t.Errorf("user agent round trip = %q", got)
	}
}

func TestEmitAppendsAcrossSinkInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	ctx := context.Background()

	if err := NewCSVSink(path).Emit(ctx, "a.log", []domain.LogRecord{record("1.1.1.1", "GET")}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := NewCSVSink(path).Emit(ctx, "a.log", []domain.LogRecord{record("1.1.1.1", "GET")}); err != nil {
		t.Fatalf("second run: %v", err)
	}

	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), "source,ip_addr"); n != 1 {
		t.Errorf("header written %d times, want 1", n)
	}
	if rows := readRows(t, path); len(rows) != 3 {
		t.Errorf("got %d rows, want 3", len(rows))
	}
}

func TestEmitUnwritableDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.csv")
	err := NewCSVSink(path).Emit(context.Background(), "a.log", []domain.LogRecord{record("1.1.1.1", "GET")})
	if err == nil {
		t.Fatal("expected error for destination in a missing directory")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should mention %s", err, path)
	}
}

func TestEmitDirectoryDestination(t *testing.T) {
	dir := t.TempDir()
	err := NewCSVSink(dir).Emit(context.Background(), "a.log", []domain.LogRecord{record("1.1.1.1", "GET")})
	if err == nil {
		t.Fatal("expected error when destination is a directory")
	}
}

func TestConcurrentEmitSerialized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	sink := NewCSVSink(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.Emit(context.Background(), "c.log", []domain.LogRecord{record("1.1.1.1", "GET")})
		}()
	}
	wg.Wait()

	rows := readRows(t, path)
	if len(rows) != 21 {
		t.Errorf("got %d rows, want 21", len(rows))
	}
}
