package agcword

import "testing"

func TestOverflowCorrection(t *testing.T) {
	for a := uint32(0); a <= 0x7FFF; a++ {
		v := uint16(a)
		got := OverflowCorrection(v)
		switch v & 0xC000 {
		case 0x8000:
			if got != (v | 0xC000) {
				t.Fatalf("OverflowCorrection(%#x) = %#x, want %#x", v, got, v|0xC000)
			}
		case 0x4000:
			if got != (v & 0x3FFF) {
				t.Fatalf("OverflowCorrection(%#x) = %#x, want %#x", v, got, v&0x3FFF)
			}
		default:
			if got != v {
				t.Fatalf("OverflowCorrection(%#x) = %#x, want %#x", v, got, v)
			}
		}
	}
}

func TestSignExtend(t *testing.T) {
	for k := uint32(0); k <= 0x7FFF; k++ {
		v := uint16(k)
		got := SignExtend(v)
		var want uint16
		if v&0x4000 != 0 {
			want = v | 0x8000
		} else {
			want = v & 0x7FFF
		}
		if got != want {
			t.Fatalf("SignExtend(%#x) = %#x, want %#x", v, got, want)
		}
	}
}

func TestSPAdd(t *testing.T) {
	cases := []struct{ a, b, want uint16 }{
		{0o77777, 0o77777, 0o77777},
		{0, 0, 0},
		{1, 1, 2},
		{0o77776, 0o77776, 0o77775},
		{0x47ff, 0x3809, 0x0009},
	}
	for _, c := range cases {
		if got := SPAdd(c.a, c.b); got != c.want {
			t.Errorf("SPAdd(%#o, %#o) = %#o, want %#o", c.a, c.b, got, c.want)
		}
	}
}

func TestS16Add(t *testing.T) {
	if got := S16Add(0xFFFF, 0xFFFF); got != 0xFFFF {
		t.Errorf("S16Add(-0,-0) = %#x, want %#x", got, uint16(0xFFFF))
	}
	if got := S16Add(1, 1); got != 2 {
		t.Errorf("S16Add(1,1) = %#x, want 2", got)
	}
}

func TestDPPackUnpackRoundTrip(t *testing.T) {
	cases := []struct{ upper, lower uint16 }{
		{0o00001, 0o00002},
		{0o77776, 0o77775},
		{0o00000, 0o00000},
		{0o77777, 0o77777},
	}
	for _, c := range cases {
		dp := DPPack(c.upper, c.lower)
		u, l := DPUnpack(dp)
		sign := SPSignBit(c.upper)
		if SPSignBit(u) != sign || SPSignBit(l) != sign {
			t.Errorf("DPPack/Unpack(%#o,%#o): signs disagree after round trip: got u=%#o l=%#o", c.upper, c.lower, u, l)
		}
	}
}

func TestSignExtendFixesOverflowCorrection(t *testing.T) {
	// An overflow-corrected word already agrees with its own sign
	// extension.
	for a := uint32(0); a <= 0xFFFF; a++ {
		v := OverflowCorrection(uint16(a))
		if got := SignExtend(v); got != v {
			t.Fatalf("SignExtend(OverflowCorrection(%#x)) = %#x, want %#x", a, got, v)
		}
	}
}

func TestConvertToDP(t *testing.T) {
	cases := []struct {
		upper, lower uint16
		want         uint32
	}{
		{0o00000, 0o00005, 0o00000000005},
		{0o00000, 0o37777, 0o00000037777},
		{0o77777, 0o77772, 0o17777777772},
		{0o00001, 0o00001, 0o00000040001},
		{0o60000, 0o40000, 0o3000000000}, // both halves negative, signs agree
	}
	for _, c := range cases {
		if got := ConvertToDP(c.upper, c.lower); got != c.want {
			t.Errorf("ConvertToDP(%05o, %05o) = %011o, want %011o", c.upper, c.lower, got, c.want)
		}
	}
}

func TestAbsSP(t *testing.T) {
	cases := []struct{ in, want uint16 }{
		{0o00000, 0o00000},
		{0o77777, 0o00000},
		{0o00005, 0o00005},
		{0o77772, 0o00005},
		{0o37777, 0o37777},
		{0o40000, 0o37777},
	}
	for _, c := range cases {
		if got := AbsSP(c.in); got != c.want {
			t.Errorf("AbsSP(%05o) = %05o, want %05o", c.in, got, c.want)
		}
	}
}

func TestCPUSPConversionRoundTrip(t *testing.T) {
	for v := int16(-0o37777); v <= 0o37777; v++ {
		agc := CPUToAGCSP(v)
		back := AGCSPToCPU(agc)
		if back != v {
			t.Fatalf("CPUToAGCSP/AGCSPToCPU round trip failed for %d: got %d", v, back)
		}
	}
}
