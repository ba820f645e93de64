package builder

import (
	"context"
	"math/bits"
	"sort"

	"github.com/vk/irgen/internal/ctxlog"
	"github.com/vk/irgen/internal/expand"
	"github.com/vk/irgen/internal/model"
)

// Options controls document assembly.
type Options struct {
	// MaxAddress bounds the absolute last byte of every register, block
	// base included. Zero means expand.DefaultMaxAddress.
	MaxAddress uint64
}

func (o Options) maxAddress() uint64 {
	if o.MaxAddress == 0 {
		return expand.DefaultMaxAddress
	}
	return o.MaxAddress
}

type blockState struct {
	block   *model.AddressBlock
	baseSet bool
	baseRef model.Ref
	names   map[string]*model.ExpandedRegister
}

// Build groups registers by memory map and block in first-seen order.
// blocks supplies base, range and description for blocks whose register
// rows carry no BASE column. Registers without emitted fields are dropped.
func Build(ctx context.Context, regs []model.ExpandedRegister, blocks []model.BlockInfo, ident model.Component, opts Options) (*model.Document, error) {
	logger := ctxlog.FromContext(ctx)

	infos := make(map[string]model.BlockInfo, len(blocks))
	for _, b := range blocks {
		infos[b.Name] = b
	}

	doc := &model.Document{Component: ident}
	maps := make(map[string]*model.MemoryMap)
	states := make(map[string]*blockState)
	var order []*blockState

	for i := range regs {
		reg := &regs[i]
		if len(reg.Fields) == 0 {
			logger.Info("Register has no emitted fields and is dropped.", "register", reg.Name, "ref", reg.Ref.String())
			continue
		}
		tpl := reg.Template
		mapName, blockName := "", ""
		if tpl != nil {
			mapName, blockName = tpl.MemoryMap, tpl.Block
		}

		key := mapName + "\x00" + blockName
		st, ok := states[key]
		if !ok {
			mm, ok := maps[mapName]
			if !ok {
				mm = &model.MemoryMap{Name: mapName}
				maps[mapName] = mm
				doc.MemoryMaps = append(doc.MemoryMaps, mm)
			}
			st = &blockState{
				block: &model.AddressBlock{Name: blockName, Ref: reg.Ref},
				names: make(map[string]*model.ExpandedRegister),
			}
			if info, ok := infos[blockName]; ok {
				st.block.Base, st.block.Range = info.Base, info.Range
				st.block.Description = info.Description
				st.baseSet, st.baseRef = true, info.Ref
			}
			mm.Blocks = append(mm.Blocks, st.block)
			states[key] = st
			order = append(order, st)
		}

		if tpl != nil && tpl.BlockBase != nil {
			if err := st.setBase(*tpl.BlockBase, tpl.Ref); err != nil {
				return nil, err
			}
		}

		if prev, dup := st.names[reg.Name]; dup {
			return nil, model.Errorf(model.KindDuplicateRegisterName, reg.Ref,
				"register %s in block %s collides with %s defined at %s", reg.Name, blockName, prev.Name, prev.Ref).
				WithName(reg.Name)
		}
		st.names[reg.Name] = reg
		st.block.Registers = append(st.block.Registers, reg)
	}

	if doc.RegisterCount() == 0 {
		return nil, model.Errorf(model.KindEmptyModel, model.Ref{}, "no registers survived normalization and filtering")
	}

	for _, st := range order {
		if err := st.finish(opts.maxAddress()); err != nil {
			return nil, err
		}
		logger.Debug("Address block assembled.",
			"block", st.block.Name, "base", st.block.Base, "range", st.block.Range, "registers", len(st.block.Registers))
	}
	return doc, nil
}

func (s *blockState) setBase(base uint64, ref model.Ref) error {
	if s.baseSet && s.block.Base != base {
		return model.Errorf(model.KindInvalidValue, ref,
			"block %s base %#x conflicts with %#x given at %s", s.block.Name, base, s.block.Base, s.baseRef).
			WithName(s.block.Name)
	}
	s.block.Base, s.baseSet, s.baseRef = base, true, ref
	return nil
}

func (s *blockState) finish(limit uint64) error {
	b := s.block
	if !s.baseSet {
		return model.Errorf(model.KindMissingGroupContext, b.Ref,
			"block %s has no base address in a BASE column or the address_map sheet", b.Name).WithName(b.Name)
	}

	sorted := make([]*model.ExpandedRegister, len(b.Registers))
	copy(sorted, b.Registers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	var end uint64
	var tail *model.ExpandedRegister
	for i, reg := range sorted {
		b.Width = max(b.Width, reg.Width)
		if i > 0 && reg.Offset <= end {
			return model.Errorf(model.KindAddressOverlap, reg.Ref,
				"register %s [%#x..%#x] overlaps register %s [%#x..%#x]",
				reg.Name, reg.Offset, reg.End(), tail.Name, tail.Offset, tail.End()).WithName(reg.Name)
		}
		if tail == nil || reg.End() > end {
			end, tail = reg.End(), reg
		}
	}

	if abs, carry := bits.Add64(b.Base, end, 0); carry != 0 || abs > limit {
		return model.Errorf(model.KindRangeExpansionOverflow, tail.Ref,
			"register %s at %#x in block %s (base %#x) ends past the address limit %#x",
			tail.Name, tail.Offset, b.Name, b.Base, limit).WithName(tail.Name)
	}

	unit := uint64((b.Width + 7) / 8)
	size := (end/unit + 1) * unit
	switch {
	case b.Range == 0:
		b.Range = size
	case b.Range < end+1:
		return model.Errorf(model.KindRangeExpansionOverflow, tail.Ref,
			"register %s ends at %#x, past the %#x byte range of block %s", tail.Name, end, b.Range, b.Name).
			WithName(tail.Name)
	}
	return nil
}
