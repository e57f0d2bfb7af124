package logging

import "testing"

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(10)
	if !s.ShouldLog(0) {
		t.Fatal("first bucket should log")
	}
	if s.ShouldLog(4) {
		t.Fatal("same bucket should not log again")
	}
	if !s.ShouldLog(12) {
		t.Fatal("next bucket should log")
	}
	if !s.ShouldLog(100) {
		t.Fatal("completion should log")
	}
	if s.ShouldLog(100) {
		t.Fatal("completion should log once")
	}
}

func TestProgressSamplerUnknownPercentAlwaysLogs(t *testing.T) {
	s := NewProgressSampler(5)
	for i := 0; i < 3; i++ {
		if !s.ShouldLog(-1) {
			t.Fatal("unknown percent should always log")
		}
	}
}

func TestProgressSamplerReset(t *testing.T) {
	s := NewProgressSampler(5)
	_ = s.ShouldLog(50)
	s.Reset()
	if !s.ShouldLog(1) {
		t.Fatal("reset should clear bucket state")
	}
}

func TestNilSamplerAlwaysLogs(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(10) {
		t.Fatal("nil sampler must never suppress")
	}
	s.Reset()
}
