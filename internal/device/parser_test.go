package device

import (
	"sync"
	"testing"
)

const chromeOnMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestParseIdempotent(t *testing.T) {
	p := NewUAParser()

	first := p.Parse(chromeOnMac)
	second := p.Parse(chromeOnMac)
	if first != second {
		t.Errorf("repeated parse differs: %+v vs %+v", first, second)
	}
	if first.OSName != "Mac OS X" {
		t.Errorf("os name = %q, want Mac OS X", first.OSName)
	}
	if first.Platform == "" {
		t.Error("platform not populated")
	}
}

func TestParseEmpty(t *testing.T) {
	p := NewUAParser()
	if got := p.Parse(""); got != (Details{}) {
		t.Errorf("empty input should yield zero details, got %+v", got)
	}
	if len(p.known) != 0 {
		t.Error("empty input should not be cached")
	}
}

func TestParseConcurrent(t *testing.T) {
	p := NewUAParser()
	agents := []string{
		chromeOnMac,
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
		"Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0",
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = p.Parse(agents[(i+j)%len(agents)])
			}
		}(i)
	}
	wg.Wait()

	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.known) != len(agents) {
		t.Errorf("cache holds %d entries, want %d (entries must not be lost)", len(p.known), len(agents))
	}
}
