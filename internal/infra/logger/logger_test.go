package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw     string
		want    zapcore.Level
		wantErr bool
	}{
		{raw: "", want: zapcore.InfoLevel},
		{raw: " DEBUG ", want: zapcore.DebugLevel},
		{raw: "warn", want: zapcore.WarnLevel},
		{raw: "loud", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseLevel(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseLevel(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", tc.raw, got, err, tc.want)
		}
	}
}

func TestNewHonorsLevel(t *testing.T) {
	log, err := New("error", WithService("swipectl"), WithConsole())
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if log.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("warn must be disabled at error level")
	}
	if !log.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("error must be enabled at error level")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
