package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"explicit transient", NewTransientError("retry me", nil), ErrorTypeTransient},
		{"wrapped permanent", fmt.Errorf("handler: %w", NewPermanentError("bad payload", nil)), ErrorTypePermanent},
		{"deadline", context.DeadlineExceeded, ErrorTypeTransient},
		{"connection refused", errors.New("dial tcp 127.0.0.1:9092: Connection Refused"), ErrorTypeTransient},
		{"unknown", errors.New("unknown topic or partition"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("timeout", nil)

	if !ShouldRetry(transient, 0, 3) {
		t.Errorf("transient error under the limit should be retried")
	}
	if ShouldRetry(transient, 3, 3) {
		t.Errorf("retry limit should be honoured")
	}
	if ShouldRetry(NewPermanentError("bad", nil), 0, 3) {
		t.Errorf("permanent errors should never be retried")
	}
}

func TestMessage_RetryCount(t *testing.T) {
	msg := Message{}
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	if got := msg.GetRetryCount(); got != 12 {
		t.Errorf("GetRetryCount() = %d, want 12", got)
	}
}

func TestMessageBuilder_EncodingFailure(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	if ClassifyError(err) != ErrorTypePermanent {
		t.Errorf("encoding failure should be a permanent error, got %v", err)
	}
}
