package logger

import (
	"strings"
	"sync"
	"testing"
)

// TestProgressBarRender verifies correct ASCII bar rendering
func TestProgressBarRender(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		width    int
		expected string
	}{
		{"empty progress", 0, 10, 10, "[          ] 0/10 (0%)"},
		{"half progress", 5, 10, 10, "[=====     ] 5/10 (50%)"},
		{"full progress", 10, 10, 10, "[==========] 10/10 (100%)"},
		{"over total clamps", 12, 10, 10, "[==========] 12/10 (100%)"},
		{"zero total", 0, 0, 4, "[    ] 0/0 (0%)"},
		{"invalid width defaults", 1, 2, 0, "[=====     ] 1/2 (50%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := NewProgressBar(tt.total, tt.width, false)
			pb.Update(tt.current)
			if got := pb.Render(); got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// TestProgressBarColor verifies cyan in progress and green when complete
func TestProgressBarColor(t *testing.T) {
	pb := NewProgressBar(4, 4, true)
	pb.Update(2)
	if got := pb.Render(); !strings.HasPrefix(got, "\033[36m") {
		t.Errorf("in-progress render = %q, want cyan", got)
	}
	pb.Update(4)
	if got := pb.Render(); !strings.HasPrefix(got, "\033[32m") {
		t.Errorf("complete render = %q, want green", got)
	}
}

// TestProgressBarPrefix verifies the prefix is rendered before the bar
func TestProgressBarPrefix(t *testing.T) {
	pb := NewProgressBar(2, 2, false)
	pb.SetPrefix("Recordings ")
	if got := pb.Render(); got != "Recordings [  ] 0/2 (0%)" {
		t.Errorf("Render() = %q", got)
	}
}

// TestProgressBarConcurrentIncrement verifies thread safety
func TestProgressBarConcurrentIncrement(t *testing.T) {
	pb := NewProgressBar(100, 10, false)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pb.Increment()
		}()
	}
	wg.Wait()

	if pb.Current() != 100 {
		t.Errorf("Current() = %d, want 100", pb.Current())
	}
	if pb.Percentage() != 100 {
		t.Errorf("Percentage() = %d, want 100", pb.Percentage())
	}
	if pb.Total() != 100 {
		t.Errorf("Total() = %d, want 100", pb.Total())
	}
}
