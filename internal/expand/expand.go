// Package expand turns register templates into concrete registers, one per
// value of the template's range.
package expand

import (
	"fmt"
	"math/bits"

	"github.com/vk/irgen/internal/model"
)

// DefaultMaxAddress is the highest byte address a register may occupy when
// no bound is configured.
const DefaultMaxAddress uint64 = 0xFFFFFFFF

// MaxInstances caps the registers one template may expand into.
const MaxInstances = 1 << 20

// Options controls expansion.
type Options struct {
	// MaxAddress bounds the last byte of every register. Zero means
	// DefaultMaxAddress.
	MaxAddress uint64
	// CheckCoverage requires emitted and reserved fields to tile the
	// register without gaps.
	CheckCoverage bool
}

func (o Options) maxAddress() uint64 {
	if o.MaxAddress == 0 {
		return DefaultMaxAddress
	}
	return o.MaxAddress
}

// Expand validates the template fields once and then produces one register
// per range value, or exactly one register for a plain name.
func Expand(tpl *model.RegisterTemplate, opts Options) ([]model.ExpandedRegister, error) {
	if err := ValidateFields(tpl, opts.CheckCoverage); err != nil {
		return nil, err
	}

	if !tpl.Name.IsTemplated() {
		reg := instance(tpl, tpl.Name.Template, tpl.Offset, 0, 0)
		if err := checkBounds(tpl, &reg, opts); err != nil {
			return nil, err
		}
		return []model.ExpandedRegister{reg}, nil
	}

	spec := *tpl.Name.Range
	if err := spec.Validate(); err != nil {
		return nil, model.Errorf(model.KindMalformedRangeSpec, tpl.Ref, "%s", err).WithValue(tpl.Name.Raw)
	}
	n := spec.Len()
	if n > 1 && tpl.Stride == 0 {
		return nil, model.Errorf(model.KindInvalidStride, tpl.Ref,
			"stride is 0 but the range yields %d registers", n).WithName(tpl.Name.Raw)
	}
	if err := checkLast(tpl, spec, opts); err != nil {
		return nil, err
	}
	if n > MaxInstances {
		return nil, model.Errorf(model.KindRangeExpansionOverflow, tpl.Ref,
			"range %s yields %d registers, more than the %d one template may expand into", spec, n, MaxInstances).
			WithName(tpl.Name.Raw)
	}

	regs := make([]model.ExpandedRegister, 0, n)
	for i := 0; i < n; i++ {
		v := spec.At(i)
		step := uint64(i)
		if spec.Kind == model.RangeBounded {
			step = uint64(v - spec.Low)
		}
		offset, err := offsetOf(tpl.Offset, step, tpl.Stride)
		if err != nil {
			return nil, model.Errorf(model.KindRangeExpansionOverflow, tpl.Ref, "%s", err).
				WithName(tpl.Name.Resolve(v))
		}
		reg := instance(tpl, tpl.Name.Resolve(v), offset, i, v)
		if err := checkBounds(tpl, &reg, opts); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

// checkLast bounds the instance with the highest offset. Offsets grow with
// the step, so every other instance is in bounds when this one is.
func checkLast(tpl *model.RegisterTemplate, spec model.RangeSpec, opts Options) error {
	last := spec.Len() - 1
	v := spec.At(last)
	offset, err := offsetOf(tpl.Offset, uint64(last), tpl.Stride)
	if err != nil {
		return model.Errorf(model.KindRangeExpansionOverflow, tpl.Ref, "%s", err).WithName(tpl.Name.Resolve(v))
	}
	reg := model.ExpandedRegister{Name: tpl.Name.Resolve(v), Offset: offset, Width: tpl.Width}
	return checkBounds(tpl, &reg, opts)
}

// offsetOf computes base + step*stride and reports 64-bit overflow.
func offsetOf(base, step, stride uint64) (uint64, error) {
	hi, lo := bits.Mul64(step, stride)
	if hi != 0 {
		return 0, fmt.Errorf("offset of instance %d with stride %#x overflows", step, stride)
	}
	sum, carry := bits.Add64(base, lo, 0)
	if carry != 0 {
		return 0, fmt.Errorf("offset %#x + %#x overflows", base, lo)
	}
	return sum, nil
}

func checkBounds(tpl *model.RegisterTemplate, reg *model.ExpandedRegister, opts Options) error {
	limit := opts.maxAddress()
	end, carry := bits.Add64(reg.Offset, reg.Bytes()-1, 0)
	if tpl.BlockBase != nil && carry == 0 {
		end, carry = bits.Add64(end, *tpl.BlockBase, 0)
	}
	if carry != 0 || end > limit {
		return model.Errorf(model.KindRangeExpansionOverflow, tpl.Ref,
			"register at offset %#x ends past the address limit %#x", reg.Offset, limit).WithName(reg.Name)
	}
	return nil
}

func instance(tpl *model.RegisterTemplate, name string, offset uint64, index, value int) model.ExpandedRegister {
	fields := make([]model.FieldSpec, len(tpl.Fields))
	copy(fields, tpl.Fields)
	return model.ExpandedRegister{
		Name:        name,
		Offset:      offset,
		Width:       tpl.Width,
		Description: tpl.Description,
		Fields:      fields,
		Index:       index,
		Value:       value,
		Template:    tpl,
		Ref:         tpl.Ref,
	}
}
