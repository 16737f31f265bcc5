package agcmem

import (
	"bytes"
	"testing"

	"github.com/rcornwell/ragc/emu/agcaddr"
	"github.com/rcornwell/ragc/emu/agcregs"
)

func TestRAMReset(t *testing.T) {
	r := NewRAM()
	for i := 0; i < agcaddr.RAMNumBanks; i++ {
		for j := 0; j < agcaddr.RAMBankNumWords; j++ {
			r.banks[i][j] = 0xAA55
		}
	}
	r.Reset()
	for i := 0; i < agcaddr.RAMNumBanks; i++ {
		for j := 0; j < agcaddr.RAMBankNumWords; j++ {
			if r.banks[i][j] != 0 {
				t.Fatalf("bank %d offset %d not reset", i, j)
			}
		}
	}
}

func TestRAMReadSPLocations(t *testing.T) {
	r := NewRAM()
	for i := 0; i < agcaddr.RAMNumBanks; i++ {
		for j := 0; j < agcaddr.RAMBankNumWords; j++ {
			r.Reset()
			r.banks[i][j] = 0x55AA
			if got := r.Read(i, j); got != 0x55AA {
				t.Fatalf("bank %d offset %d: want %#x, got %#x", i, j, 0x55AA, got)
			}
		}
	}
}

func TestRAMReadS16Locations(t *testing.T) {
	r := NewRAM()
	shadow := map[int]bool{agcregs.RegA: true, agcregs.RegQ: true}

	for reg := range shadow {
		r.Reset()
		r.banks[0][reg] = 0xFFFF
		if got := r.Read(0, reg); got != 0xFFFF {
			t.Fatalf("shadow offset %d: want %#x, got %#x", reg, 0xFFFF, got)
		}
	}

	for i := 0; i < agcaddr.RAMNumBanks; i++ {
		for j := 0; j < agcaddr.RAMBankNumWords; j++ {
			if i == 0 && shadow[j] {
				continue
			}
			r.Reset()
			r.banks[i][j] = 0xFFFF
			if got := r.Read(i, j); got != 0x7FFF {
				t.Fatalf("bank %d offset %d: want %#x, got %#x", i, j, 0x7FFF, got)
			}
		}
	}
}

func TestRAMWriteSPLocations(t *testing.T) {
	r := NewRAM()
	for i := 0; i < agcaddr.RAMNumBanks; i++ {
		for j := 0; j < agcaddr.RAMBankNumWords; j++ {
			r.Reset()
			r.Write(i, j, 0x55AA)
			if r.banks[i][j] != 0x55AA {
				t.Fatalf("bank %d offset %d: want %#x, got %#x", i, j, 0x55AA, r.banks[i][j])
			}
		}
	}
}

func TestRAMWriteS16Locations(t *testing.T) {
	r := NewRAM()
	for _, reg := range []int{agcregs.RegA, agcregs.RegQ} {
		r.Reset()
		r.Write(0, reg, 0xFFFF)
		if r.banks[0][reg] != 0xFFFF {
			t.Fatalf("shadow offset %d: want %#x, got %#x", reg, 0xFFFF, r.banks[0][reg])
		}
	}
}

func TestRAMSaveLoadRoundTrip(t *testing.T) {
	r := NewRAM()
	r.Write(0, 10, 0x1234)
	r.Write(5, 200, 0x0001)

	var buf bytes.Buffer
	if err := r.SaveState(&buf); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	r2 := NewRAM()
	if err := r2.LoadState(&buf); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if got := r2.Read(0, 10); got != 0x1234&0x7FFF {
		t.Errorf("restored (0,10): want %#x, got %#x", 0x1234&0x7FFF, got)
	}
	if got := r2.Read(5, 200); got != 0x0001 {
		t.Errorf("restored (5,200): want %#x, got %#x", 0x0001, got)
	}
}
