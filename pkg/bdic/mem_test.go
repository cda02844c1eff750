//go:build test

package bdic

import (
	"bytes"
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func memWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%05d-%c", i, 'a'+i%26)
	}
	return words
}

func TestMemoryCompileParse(t *testing.T) {
	for _, iterations := range []int{10, 50, 200} {
		t.Run(fmt.Sprintf("iterations_%d", iterations), func(t *testing.T) {
			words := memWords(2000)

			var baseline runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&baseline)
			baselineGoroutines := runtime.NumGoroutine()

			for i := 0; i < iterations; i++ {
				blob, err := Compile(words, nil)
				if err != nil {
					t.Fatalf("compile failed: %v", err)
				}
				d, err := Parse(blob)
				if err != nil {
					t.Fatalf("parse failed: %v", err)
				}
				_ = d.WithPrefix("w001")
			}

			var final runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&final)

			memDelta := int64(final.Alloc) - int64(baseline.Alloc)
			goroutineDelta := runtime.NumGoroutine() - baselineGoroutines
			t.Logf("iterations=%d mem_delta=%d bytes goroutine_delta=%d", iterations, memDelta, goroutineDelta)

			if memDelta > 4<<20 {
				t.Errorf("memory retained after compile/parse: %d bytes", memDelta)
			}
			if goroutineDelta > 0 {
				t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
			}
		})
	}
}

func TestConcurrentCompile(t *testing.T) {
	words := memWords(3000)
	want, err := Compile(words, nil)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	for _, workers := range []int{2, 4, 8} {
		t.Run(fmt.Sprintf("workers_%d", workers), func(t *testing.T) {
			var wg sync.WaitGroup
			errs := make(chan error, workers)
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 20; i++ {
						got, err := Compile(words, nil)
						if err != nil {
							errs <- err
							return
						}
						if !bytes.Equal(got, want) {
							errs <- fmt.Errorf("output differs on iteration %d", i)
							return
						}
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Error(err)
			}
		})
	}
}
