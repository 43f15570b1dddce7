package tokens

import (
	"encoding/hex"
	"testing"
)

func TestNewVerificationToken_Shape(t *testing.T) {
	t.Parallel()
	tok, err := NewVerificationToken()
	if err != nil {
		t.Fatalf("NewVerificationToken err: %v", err)
	}
	if len(tok) != VerificationTokenBytes*2 {
		t.Fatalf("token len = %d, want %d hex chars", len(tok), VerificationTokenBytes*2)
	}
	if _, err := hex.DecodeString(tok); err != nil {
		t.Fatalf("token is not hex: %v", err)
	}
}

func TestNewVerificationToken_Unique(t *testing.T) {
	t.Parallel()
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		tok, err := NewVerificationToken()
		if err != nil {
			t.Fatal(err)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[tok] = struct{}{}
	}
}
