package validation

import "testing"

func TestValidEmail(t *testing.T) {
	valids := []string{
		"alice@x.com",
		"a.b+tag@sub.domain.org",
		"UPPER@CASE.COM",
	}
	for _, v := range valids {
		if !ValidEmail(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}

	invalids := []string{
		"",
		"no-at-sign",
		"two@@x.com",
		"nodot@localhost",
		"spaces in@x.com",
		"@x.com",
		"a@",
	}
	for _, v := range invalids {
		if ValidEmail(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

func TestValidPassword(t *testing.T) {
	if ValidPassword("12345") {
		t.Fatalf("5 chars must be invalid")
	}
	if !ValidPassword("123456") {
		t.Fatalf("6 chars must be valid")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@X.COM "); got != "alice@x.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}
