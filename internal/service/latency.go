package service

import (
	"context"
	"time"
)

// Delays holds the artificial latency applied before each data operation.
// A zero value disables the delay for that operation.
type Delays struct {
	Login         time.Duration
	FetchStudents time.Duration
	FetchRecords  time.Duration
	BulkAdd       time.Duration
	UpdateStatus  time.Duration
	SaveRecord    time.Duration
}

// DefaultDelays mirrors the latency profile of the hosted console.
func DefaultDelays() Delays {
	return Delays{
		Login:         1200 * time.Millisecond,
		FetchStudents: 500 * time.Millisecond,
		FetchRecords:  400 * time.Millisecond,
		BulkAdd:       1500 * time.Millisecond,
		UpdateStatus:  300 * time.Millisecond,
		SaveRecord:    300 * time.Millisecond,
	}
}

func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
