package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"
)

func makeGRPCError(delay time.Duration) error {
	st := status.New(codes.ResourceExhausted, "rate limited")
	retryInfo := &errdetails.RetryInfo{
		RetryDelay: durationpb.New(delay),
	}
	st, _ = st.WithDetails(retryInfo)
	return st.Err()
}

func TestExtractRetryDelay(t *testing.T) {

	type test struct {
		name          string
		err           error
		expectedDelay time.Duration
		expectedOk    bool
	}

	tests := []test{
		{
			name:          "nil error",
			err:           nil,
			expectedDelay: 0,
			expectedOk:    false,
		},
		{
			name:          "non-grpc error",
			err:           errors.New("regular error"),
			expectedDelay: 0,
			expectedOk:    false,
		},
		{
			name:          "RESOURCE_EXHAUSTED without RetryInfo",
			err:           status.Error(codes.ResourceExhausted, "rate limited"),
			expectedDelay: 0,
			expectedOk:    false,
		},
		{
			name:          "RESOURCE_EXHAUSTED with RetryInfo",
			err:           makeGRPCError(5 * time.Second),
			expectedDelay: 5 * time.Second,
			expectedOk:    true,
		},
		{
			name:          "RESOURCE_EXHAUSTED with RetryInfo (zero delay)",
			err:           makeGRPCError(0),
			expectedDelay: 0,
			expectedOk:    true,
		},
		{
			name:          "RESOURCE_EXHAUSTED with RetryInfo (large delay)",
			err:           makeGRPCError(30 * time.Minute),
			expectedDelay: 30 * time.Minute,
			expectedOk:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delay, ok := extractRetryDelay(tt.err)

			if ok != tt.expectedOk {
				t.Errorf("got ok = %t, want %t", ok, tt.expectedOk)
			}

			if delay != tt.expectedDelay {
				t.Errorf("got delay = %v, want %v", delay, tt.expectedDelay)
			}
		})
	}
}

func TestRetry(t *testing.T) {

	rc := func() *RetryConfig {
		return &RetryConfig{MaxRetries: 3, Delay: time.Millisecond}
	}

	t.Run("success on first try", func(t *testing.T) {
		calls := 0
		got, err := Retry(t.Context(), rc(), func() (string, error) {
			calls++
			return "ok", nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "ok" || calls != 1 {
			t.Errorf("got %q after %d calls, want %q after 1 call", got, calls, "ok")
		}
	})

	t.Run("success after failures", func(t *testing.T) {
		calls := 0
		got, err := Retry(t.Context(), rc(), func() (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("transient")
			}
			return "ok", nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "ok" || calls != 3 {
			t.Errorf("got %q after %d calls, want %q after 3 calls", got, calls, "ok")
		}
	})

	t.Run("exhausts retries", func(t *testing.T) {
		calls := 0
		_, err := Retry(t.Context(), rc(), func() (string, error) {
			calls++
			return "", errors.New("permanent")
		})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if calls != 3 {
			t.Errorf("got %d calls, want 3", calls)
		}
	})

	t.Run("excessive API delay gives up", func(t *testing.T) {
		_, err := Retry(t.Context(), rc(), func() (string, error) {
			return "", makeGRPCError(time.Hour)
		})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("cancelled context stops the retries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := Retry(ctx, rc(), func() (string, error) {
			return "", errors.New("transient")
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	})
}
