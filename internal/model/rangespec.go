// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines RangeSpec, the integer sequence attached to a templated
// register name such as `ch{n}, n=range(4)` or `ch{n}, n=2~5`.
package model

import (
	"fmt"
	"math"
	"strconv"
)

// RangeKind selects which variant of RangeSpec is populated.
type RangeKind int

const (
	// RangeEnumerated yields 0..Count-1.
	RangeEnumerated RangeKind = iota
	// RangeBounded yields Low..High inclusive.
	RangeBounded
	// RangeStepped yields Low, Low+Step, ... while below High (exclusive),
	// matching the three-argument range(start, stop, step) form.
	RangeStepped
)

// RangeSpec is a closed variant; only the fields relevant to Kind are set.
type RangeSpec struct {
	Kind  RangeKind
	Count int
	Low   int
	High  int
	Step  int
}

// Enumerated returns the range(k) variant.
func Enumerated(count int) RangeSpec {
	return RangeSpec{Kind: RangeEnumerated, Count: count}
}

// Bounded returns the lo~hi variant; high is inclusive.
func Bounded(low, high int) RangeSpec {
	return RangeSpec{Kind: RangeBounded, Low: low, High: high}
}

// Stepped returns the range(start, stop, step) variant; stop is exclusive.
func Stepped(start, stop, step int) RangeSpec {
	return RangeSpec{Kind: RangeStepped, Low: start, High: stop, Step: step}
}

// Validate checks the per-variant invariants. A range must yield at least
// one value and no more than fit in an int.
func (r RangeSpec) Validate() error {
	switch r.Kind {
	case RangeEnumerated:
		if r.Count < 1 {
			return fmt.Errorf("range count must be at least 1, got %d", r.Count)
		}
	case RangeBounded:
		if r.Low > r.High {
			return fmt.Errorf("range lower bound %d is greater than upper bound %d", r.Low, r.High)
		}
	case RangeStepped:
		if r.Step == 0 {
			return fmt.Errorf("range step must not be zero")
		}
		if r.size() == 0 {
			return fmt.Errorf("range(%d, %d, %d) is empty", r.Low, r.High, r.Step)
		}
	default:
		return fmt.Errorf("unknown range kind %d", r.Kind)
	}
	if n := r.size(); n > math.MaxInt {
		return fmt.Errorf("range %s yields %d values, more than can be addressed", r, n)
	}
	return nil
}

// Len reports how many values the range yields. Ranges rejected by
// Validate for their size report math.MaxInt, never zero.
func (r RangeSpec) Len() int {
	return int(min(r.size(), math.MaxInt))
}

// size is the exact number of values. The differences are taken in uint64
// so bounds at the extremes of int cannot wrap.
func (r RangeSpec) size() uint64 {
	switch r.Kind {
	case RangeEnumerated:
		return uint64(max(r.Count, 0))
	case RangeBounded:
		if r.Low > r.High {
			return 0
		}
		span := uint64(r.High) - uint64(r.Low)
		if span == math.MaxUint64 {
			return math.MaxUint64
		}
		return span + 1
	case RangeStepped:
		if r.Step > 0 && r.Low < r.High {
			return (uint64(r.High)-uint64(r.Low)-1)/uint64(r.Step) + 1
		}
		if r.Step < 0 && r.Low > r.High {
			return (uint64(r.Low)-uint64(r.High)-1)/(0-uint64(r.Step)) + 1
		}
	}
	return 0
}

// Values returns the ordered integer sequence of the range.
func (r RangeSpec) Values() []int {
	n := r.Len()
	values := make([]int, 0, n)
	for i := 0; i < n; i++ {
		values = append(values, r.At(i))
	}
	return values
}

// At returns the i-th value of the sequence without materialising it.
func (r RangeSpec) At(i int) int {
	switch r.Kind {
	case RangeBounded:
		return r.Low + i
	case RangeStepped:
		return r.Low + i*r.Step
	default:
		return i
	}
}

func (r RangeSpec) String() string {
	switch r.Kind {
	case RangeEnumerated:
		return "range(" + strconv.Itoa(r.Count) + ")"
	case RangeBounded:
		return strconv.Itoa(r.Low) + "~" + strconv.Itoa(r.High)
	case RangeStepped:
		return fmt.Sprintf("range(%d, %d, %d)", r.Low, r.High, r.Step)
	}
	return "range(?)"
}
