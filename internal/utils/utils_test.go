package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{in: "debug", want: log.DebugLevel},
		{in: " WARN ", want: log.WarnLevel},
		{in: "warning", want: log.WarnLevel},
		{in: "", want: log.InfoLevel},
		{in: "error", want: log.ErrorLevel},
		{in: "trace", wantErr: true},
	}
	defer Log.SetLevel(log.InfoLevel)
	for _, tc := range tests {
		err := SetLogLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected an error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if Log.GetLevel() != tc.want {
			t.Fatalf("%q: want %v, got %v", tc.in, tc.want, Log.GetLevel())
		}
	}
}

func TestToday(t *testing.T) {
	restore := SetClock(func() time.Time { return time.Date(2024, 5, 3, 23, 0, 0, 0, time.UTC) })
	defer restore()
	if got := Today(); got != "2024-05-03" {
		t.Fatalf("want 2024-05-03, got %s", got)
	}
}

func TestStoreLock(t *testing.T) {
	path := t.TempDir() + "/store.sqlite"
	holder, err := NewStoreLock(path)
	if err != nil {
		t.Fatalf("NewStoreLock: %v", err)
	}
	other, err := NewStoreLock(path)
	if err != nil {
		t.Fatalf("NewStoreLock: %v", err)
	}
	ctx := context.Background()

	if err := holder.Lock(ctx, 0); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if err := other.Lock(ctx, 0); !errors.Is(err, ErrStoreBusy) {
		t.Fatalf("Lock while held: want ErrStoreBusy, got %v", err)
	}
	if err := other.Lock(ctx, 150*time.Millisecond); !errors.Is(err, ErrStoreBusy) {
		t.Fatalf("Lock with short wait: want ErrStoreBusy, got %v", err)
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		holder.Unlock()
	}()
	if err := other.Lock(ctx, 5*time.Second); err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	if err := other.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if err := other.Unlock(); err != nil {
		t.Fatalf("second Unlock: %v", err)
	}
}
