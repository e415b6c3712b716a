// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package symhook

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
)

// relocation is one decoded REL or RELA entry.
type relocation struct {
	offset uint64
	symbol uint32
	kind   uint32
}

// importSlot returns the link-time address of the GOT entry through
// which file calls name, taken from the JUMP_SLOT and GLOB_DAT
// relocations against the dynamic symbol table.
func importSlot(file *elf.File, name string) (uint64, error) {
	symbols, err := file.DynamicSymbols()
	if err != nil {
		return 0, fmt.Errorf("%w: no dynamic symbols: %v", ErrNotImported, err)
	}

	dynsym := -1
	for index, section := range file.Sections {
		if section.Type == elf.SHT_DYNSYM {
			dynsym = index
			break
		}
	}

	var glob uint64
	haveGlob := false
	for _, section := range file.Sections {
		if section.Type != elf.SHT_RELA && section.Type != elf.SHT_REL {
			continue
		}
		if int(section.Link) != dynsym {
			continue
		}
		relocations, err := readRelocations(file, section)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", section.Name, err)
		}
		for _, rel := range relocations {
			// DynamicSymbols omits the null symbol at index 0.
			if rel.symbol == 0 || int(rel.symbol) > len(symbols) || symbols[rel.symbol-1].Name != name {
				continue
			}
			switch slotKind(file.Machine, rel.kind) {
			case jumpSlot:
				return rel.offset, nil
			case globDat:
				if !haveGlob {
					glob, haveGlob = rel.offset, true
				}
			}
		}
	}
	if haveGlob {
		return glob, nil
	}
	return 0, ErrNotImported
}

func readRelocations(file *elf.File, section *elf.Section) ([]relocation, error) {
	data, err := section.Data()
	if err != nil {
		return nil, err
	}
	reader := bytes.NewReader(data)
	var relocations []relocation

	switch {
	case file.Class == elf.ELFCLASS64 && section.Type == elf.SHT_RELA:
		entries := make([]elf.Rela64, len(data)/24)
		if err := binary.Read(reader, file.ByteOrder, entries); err != nil {
			return nil, err
		}
		for _, entry := range entries {
			relocations = append(relocations, relocation{entry.Off, elf.R_SYM64(entry.Info), elf.R_TYPE64(entry.Info)})
		}
	case file.Class == elf.ELFCLASS64:
		entries := make([]elf.Rel64, len(data)/16)
		if err := binary.Read(reader, file.ByteOrder, entries); err != nil {
			return nil, err
		}
		for _, entry := range entries {
			relocations = append(relocations, relocation{entry.Off, elf.R_SYM64(entry.Info), elf.R_TYPE64(entry.Info)})
		}
	case section.Type == elf.SHT_RELA:
		entries := make([]elf.Rela32, len(data)/12)
		if err := binary.Read(reader, file.ByteOrder, entries); err != nil {
			return nil, err
		}
		for _, entry := range entries {
			relocations = append(relocations, relocation{uint64(entry.Off), elf.R_SYM32(entry.Info), elf.R_TYPE32(entry.Info)})
		}
	default:
		entries := make([]elf.Rel32, len(data)/8)
		if err := binary.Read(reader, file.ByteOrder, entries); err != nil {
			return nil, err
		}
		for _, entry := range entries {
			relocations = append(relocations, relocation{uint64(entry.Off), elf.R_SYM32(entry.Info), elf.R_TYPE32(entry.Info)})
		}
	}
	return relocations, nil
}

type slotType int

const (
	otherRelocation slotType = iota
	jumpSlot
	globDat
)

func slotKind(machine elf.Machine, kind uint32) slotType {
	switch machine {
	case elf.EM_X86_64:
		switch elf.R_X86_64(kind) {
		case elf.R_X86_64_JMP_SLOT:
			return jumpSlot
		case elf.R_X86_64_GLOB_DAT:
			return globDat
		}
	case elf.EM_AARCH64:
		switch elf.R_AARCH64(kind) {
		case elf.R_AARCH64_JUMP_SLOT:
			return jumpSlot
		case elf.R_AARCH64_GLOB_DAT:
			return globDat
		}
	case elf.EM_386:
		switch elf.R_386(kind) {
		case elf.R_386_JMP_SLOT:
			return jumpSlot
		case elf.R_386_GLOB_DAT:
			return globDat
		}
	case elf.EM_ARM:
		switch elf.R_ARM(kind) {
		case elf.R_ARM_JUMP_SLOT:
			return jumpSlot
		case elf.R_ARM_GLOB_DAT:
			return globDat
		}
	}
	return otherRelocation
}
