package main

import (
	"testing"
	"time"
)

func TestAwaitDone(t *testing.T) {
	done := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(done)
	}()
	if !awaitDone(done, time.Second) {
		t.Error("awaitDone() = false for work finishing inside the timeout")
	}

	stuck := make(chan struct{})
	if awaitDone(stuck, 10*time.Millisecond) {
		t.Error("awaitDone() = true for work that never finishes")
	}
}
