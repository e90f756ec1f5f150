// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package metrics

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	m := New()
	c := m.Counter("test")
	c.Incr()
	c.Incr()
	c.Add(3)
	if v := c.Value().(uint64); v != 5 {
		t.Fatalf("expected 5 but got %v", v)
	}
}

func TestTimer(t *testing.T) {
	m := New()
	tm := m.Timer("test")
	tm.Start()
	time.Sleep(time.Millisecond)
	if delta := tm.Stop(); delta <= 0 {
		t.Fatalf("expected a positive delta but got %v", delta)
	}
	if tm.Int64() <= 0 {
		t.Fatalf("expected accumulated time but got %v", tm.Int64())
	}

	// Stopping an unstarted timer accumulates nothing.
	if delta := tm.Stop(); delta != 0 {
		t.Fatalf("expected zero delta but got %v", delta)
	}
}

func TestHistogram(t *testing.T) {
	m := New()
	h := m.Histogram("test")
	for i := int64(1); i <= 100; i++ {
		h.Update(i)
	}
	values := h.Value().(map[string]interface{})
	if count := values["count"].(int64); count != 100 {
		t.Fatalf("expected count 100 but got %v", count)
	}
	if min := values["min"].(int64); min != 1 {
		t.Fatalf("expected min 1 but got %v", min)
	}
	if max := values["max"].(int64); max != 100 {
		t.Fatalf("expected max 100 but got %v", max)
	}
}

func TestAllKeyFormats(t *testing.T) {
	m := New()
	m.Timer("a").Start()
	m.Timer("a").Stop()
	m.Histogram("b").Update(1)
	m.Counter("c").Incr()

	all := m.All()
	for _, key := range []string{"timer_a_ns", "histogram_b", "counter_c"} {
		if _, ok := all[key]; !ok {
			t.Fatalf("expected key %v in %v", key, all)
		}
	}
}

func TestMetricsReturnSameInstance(t *testing.T) {
	m := New()
	m.Counter("test").Incr()
	m.Counter("test").Incr()
	if v := m.Counter("test").Value().(uint64); v != 2 {
		t.Fatalf("expected 2 but got %v", v)
	}
}

func TestClear(t *testing.T) {
	m := New()
	m.Counter("test").Incr()
	m.Clear()
	if all := m.All(); len(all) != 0 {
		t.Fatalf("expected no metrics but got %v", all)
	}
}

func TestMarshalJSON(t *testing.T) {
	m := New()
	m.Counter("test").Add(7)
	bs, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(bs, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := decoded["counter_test"].(float64); !ok || v != 7 {
		t.Fatalf("expected counter_test 7 but got %v", decoded)
	}
}

func TestNoOp(t *testing.T) {
	m := NoOp()
	m.Counter("test").Incr()
	m.Histogram("test").Update(1)
	m.Timer("test").Start()
	m.Timer("test").Stop()
	if all := m.All(); all != nil {
		t.Fatalf("expected nil but got %v", all)
	}
	bs, err := m.MarshalJSON()
	if err != nil || string(bs) != "{}" {
		t.Fatalf("expected empty object but got %s (err: %v)", bs, err)
	}
}
