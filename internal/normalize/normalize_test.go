package normalize

import "testing"

func TestPadCode(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"100", "00100"},
		{"00100", "00100"},
		{"1", "00001"},
		{"123456", "123456"},
		{" 300 ", "00300"},
	}
	for _, c := range cases {
		if got := PadCode(c.in); got != c.want {
			t.Errorf("PadCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCodeInt_NonNumeric(t *testing.T) {
	if _, ok := CodeInt("0010A"); ok {
		t.Error("expected ok=false for subscripted code")
	}
	n, ok := CodeInt("00150")
	if !ok || n != 150 {
		t.Errorf("CodeInt(00150) = %d, %v", n, ok)
	}
}

func TestRollDown(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"00150", "00100"},
		{"00199", "00100"},
		{"00200", "00200"},
		{"00001", "00000"},
		{"01234", "01200"},
	}
	for _, c := range cases {
		got, ok := RollDown(c.in)
		if !ok {
			t.Fatalf("RollDown(%q) not ok", c.in)
		}
		if got != c.want {
			t.Errorf("RollDown(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRollDown_Idempotent(t *testing.T) {
	once, _ := RollDown("00567")
	twice, ok := RollDown(once)
	if !ok || twice != once {
		t.Errorf("RollDown not idempotent: %q then %q", once, twice)
	}
}

func TestRollDown_NonNumeric(t *testing.T) {
	if _, ok := RollDown("0010A"); ok {
		t.Error("expected ok=false for non-numeric code")
	}
}

func TestParseDate_Formats(t *testing.T) {
	for _, in := range []string{"03/15/2022", "3/5/2022", "2022-03-15", "03-15-2022", "20220315"} {
		if ParseDate(in) == nil {
			t.Errorf("ParseDate(%q) = nil", in)
		}
	}
	if ParseDate("") != nil {
		t.Error("expected nil for empty date")
	}
	if ParseDate("not-a-date") != nil {
		t.Error("expected nil for garbage date")
	}
}

func TestISODate(t *testing.T) {
	d := ParseDate("03/15/2022")
	s := ISODate(d)
	if s == nil || *s != "2022-03-15" {
		t.Errorf("ISODate = %v, want 2022-03-15", s)
	}
	if ISODate(nil) != nil {
		t.Error("expected nil for nil input")
	}
}
