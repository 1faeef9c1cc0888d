// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFake_StandsStillUntilAdvanced(t *testing.T) {
	c := Fake(epoch)
	if !c.Now().Equal(epoch) {
		t.Fatalf("Now = %v, want %v", c.Now(), epoch)
	}
	if !c.Now().Equal(c.Now()) {
		t.Error("fake time moved without Advance")
	}

	c.Advance(90 * time.Second)
	if want := epoch.Add(90 * time.Second); !c.Now().Equal(want) {
		t.Errorf("Now after Advance = %v, want %v", c.Now(), want)
	}

	c.Set(epoch)
	if !c.Now().Equal(epoch) {
		t.Errorf("Now after Set = %v, want %v", c.Now(), epoch)
	}
}

func TestFake_NegativeAdvancePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("negative Advance did not panic")
		}
	}()
	Fake(epoch).Advance(-time.Nanosecond)
}

func TestFake_ConcurrentAdvance(t *testing.T) {
	c := Fake(epoch)
	var group sync.WaitGroup
	for range 10 {
		group.Add(1)
		go func() {
			defer group.Done()
			for range 100 {
				c.Advance(time.Millisecond)
				c.Now()
			}
		}()
	}
	group.Wait()
	if want := epoch.Add(time.Second); !c.Now().Equal(want) {
		t.Errorf("Now = %v, want %v", c.Now(), want)
	}
}

func TestReal_Progresses(t *testing.T) {
	before := time.Now()
	now := Real().Now()
	if now.Before(before) {
		t.Errorf("Real().Now() = %v, earlier than %v", now, before)
	}
}
