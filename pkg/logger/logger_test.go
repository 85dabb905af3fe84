package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level   string
		present []string
		absent  []string
	}{
		{"debug", []string{"d-msg", "i-msg", "w-msg", "e-msg"}, nil},
		{"info", []string{"i-msg", "w-msg", "e-msg"}, []string{"d-msg"}},
		{"warn", []string{"w-msg", "e-msg"}, []string{"d-msg", "i-msg"}},
		{"error", []string{"e-msg"}, []string{"d-msg", "i-msg", "w-msg"}},
		{"bogus", []string{"i-msg"}, []string{"d-msg"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWriter(&buf, Config{Level: tt.level})

			log.Debug("d-msg")
			log.Info("i-msg")
			log.Warn("w-msg")
			log.Error("e-msg")

			out := buf.String()
			for _, s := range tt.present {
				if !strings.Contains(out, s) {
					t.Errorf("level %s: %q missing from output", tt.level, s)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(out, s) {
					t.Errorf("level %s: %q should be filtered", tt.level, s)
				}
			}
		})
	}
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, Config{}).With("component", "store")

	log.Info("save opened", "file", "bracket.db")

	out := buf.String()
	for _, want := range []string{"component=store", "file=bracket.db", "save opened"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestJSONFormatWritesUTC(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, Config{Format: "JSON"})

	log.Info("save created", "file", "a.db", "tiles", 150)

	var rec map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	if rec["msg"] != "save created" || rec["file"] != "a.db" {
		t.Errorf("unexpected record: %v", rec)
	}
	if rec["tiles"] != float64(150) {
		t.Errorf("tiles = %v, want 150", rec["tiles"])
	}

	ts, ok := rec["time"].(string)
	if !ok {
		t.Fatalf("time missing from record: %v", rec)
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		t.Fatalf("time %q is not RFC 3339: %v", ts, err)
	}
	if _, offset := parsed.Zone(); offset != 0 {
		t.Errorf("time %q is not UTC", ts)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"debug", "DEBUG", false},
		{"INFO", "INFO", false},
		{"", "INFO", false},
		{"warning", "WARN", false},
		{"WaRn", "WARN", false},
		{"error", "ERROR", false},
		{"verbose", "INFO", true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got.String() != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "gala.log")

	log := New(Config{Level: "info", Output: logFile})
	log.Info("first")
	log.Warn("second")

	data, err := os.ReadFile(logFile) // nolint:gosec
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("log file missing messages: %q", data)
	}
}

func TestOpenOutput(t *testing.T) {
	for _, out := range []string{"stdout", "STDERR", ""} {
		w, err := openOutput(out)
		if err != nil || w == nil {
			t.Errorf("openOutput(%q) = %v, %v", out, w, err)
		}
	}

	if _, err := openOutput(filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Error("openOutput() into a missing directory should fail")
	}
}

func TestDefaultAndNoop(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}

	log := Noop()
	log.Debug("debug")
	log.Error("error", "k", "v")
	log.With("a", 1).Info("info")
}

func BenchmarkLogWithFields(b *testing.B) {
	log := Noop().With("component", "bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("benchmark message", "file", "a.db", "id", i)
	}
}
