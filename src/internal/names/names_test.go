package names

import "testing"

func TestSplitList(t *testing.T) {
	list := "Doe, Jane and  John Smith;{Barnes and Noble} and Andrews, A"
	got := SplitList(list)
	want := []string{"Doe, Jane", "John Smith", "{Barnes and Noble}", "Andrews, A"}
	if len(got) != len(want) {
		t.Fatalf("SplitList: want %d names, got %+v", len(want), got)
	}
	for i, n := range got {
		if n.Text != want[i] {
			t.Fatalf("SplitList[%d]: want %q, got %q", i, want[i], n.Text)
		}
		if list[n.Start:n.End] != n.Text {
			t.Fatalf("SplitList[%d]: offsets %d:%d do not match %q", i, n.Start, n.End, n.Text)
		}
	}
	if got := SplitList("  "); len(got) != 0 {
		t.Fatalf("SplitList blank: want none, got %+v", got)
	}
}

func TestSurnameSpan(t *testing.T) {
	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"Acemoglu, Daron", "Acemoglu", true},
		{"Daron Acemoglu", "Acemoglu", true},
		{"van der Berg , Jan", "van der Berg", true},
		{"{World Bank}", "{World Bank}", true},
		{"Aristotle", "Aristotle", true},
		{`Jos{\'e} Scheinkman`, "Scheinkman", true},
		{`\MakeUppercase{Acemoglu}, Daron`, "", false},
		{`Daron \MakeUppercase{Acemoglu}`, "", false},
		{"others", "", false},
		{", Given", "", false},
	}
	for _, c := range cases {
		s, e, ok := SurnameSpan(c.name)
		if ok != c.ok {
			t.Fatalf("SurnameSpan(%q): want ok=%v, got %v", c.name, c.ok, ok)
		}
		if ok && c.name[s:e] != c.want {
			t.Fatalf("SurnameSpan(%q): want %q, got %q", c.name, c.want, c.name[s:e])
		}
	}
}

func TestProtectSurnames(t *testing.T) {
	got, n := ProtectSurnames("{Acemoglu, Daron}")
	if got != `{\MakeUppercase{Acemoglu}, Daron}` || n != 1 {
		t.Fatalf("ProtectSurnames single: got (%q,%d)", got, n)
	}
	got, n = ProtectSurnames(`"Daron Acemoglu and Robinson, James A. and others"`)
	want := `"Daron \MakeUppercase{Acemoglu} and \MakeUppercase{Robinson}, James A. and others"`
	if got != want || n != 2 {
		t.Fatalf("ProtectSurnames list: got (%q,%d)", got, n)
	}
	got, n = ProtectSurnames("{{World Bank}}")
	if got != `{\MakeUppercase{World Bank}}` || n != 1 {
		t.Fatalf("ProtectSurnames corporate: got (%q,%d)", got, n)
	}
}

func TestProtectSurnamesIsIdempotent(t *testing.T) {
	once, n := ProtectSurnames("{Doe, Jane and John Smith}")
	if n != 2 {
		t.Fatalf("first pass: want 2 names, got %d", n)
	}
	twice, n := ProtectSurnames(once)
	if twice != once || n != 0 {
		t.Fatalf("second pass changed value: (%q,%d)", twice, n)
	}
}

func TestProtectSurnamesLeavesUnparseable(t *testing.T) {
	for _, raw := range []string{"{}", "{ and }", "authors", `""`, "x"} {
		if got, n := ProtectSurnames(raw); got != raw || n != 0 {
			t.Fatalf("ProtectSurnames(%q): got (%q,%d)", raw, got, n)
		}
	}
}

func TestSplitListIgnoresCaseOfAnd(t *testing.T) {
	got := SplitList("Smith, J. AND Jones, K. And Brown, L.")
	if len(got) != 3 || got[1].Text != "Jones, K." || got[2].Text != "Brown, L." {
		t.Fatalf("SplitList: got %+v", got)
	}
	v, n := ProtectSurnames("{Smith, J. AND Jones, K.}")
	if n != 2 || v != `{\MakeUppercase{Smith}, J. AND \MakeUppercase{Jones}, K.}` {
		t.Fatalf("ProtectSurnames: got (%q,%d)", v, n)
	}
	if got := SplitList("Anderson, A. and Andrews, B."); len(got) != 2 || got[0].Text != "Anderson, A." {
		t.Fatalf("SplitList must not split inside names: %+v", got)
	}
}
