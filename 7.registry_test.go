package main

import (
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func TestChannelRegistryToggle(t *testing.T) {
	r := NewChannelRegistry()
	if r.IsEnabled(testChannelID) {
		t.Fatal("new registry should be empty")
	}

	r.Enable(testChannelID)
	r.Enable(testChannelID)
	if !r.IsEnabled(testChannelID) || r.Len() != 1 {
		t.Fatalf("enable should be idempotent, len = %d", r.Len())
	}

	r.Disable(testChannelID)
	r.Disable(testChannelID)
	if r.IsEnabled(testChannelID) || r.Len() != 0 {
		t.Fatalf("disable should be idempotent, len = %d", r.Len())
	}
}

func TestChannelRegistryDisableUnknown(t *testing.T) {
	r := NewChannelRegistry()
	r.Enable(1)
	r.Disable(2)
	if !r.IsEnabled(1) || r.Len() != 1 {
		t.Fatal("disabling an unknown channel must not touch others")
	}
}

func TestChannelRegistryConcurrent(t *testing.T) {
	r := NewChannelRegistry()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id snowflake.ID) {
			defer wg.Done()
			r.Enable(id)
			_ = r.IsEnabled(id)
			if id%2 == 0 {
				r.Disable(id)
			}
		}(snowflake.ID(i + 1))
	}
	wg.Wait()

	if r.Len() != 25 {
		t.Fatalf("Len() = %d, want 25", r.Len())
	}
}
