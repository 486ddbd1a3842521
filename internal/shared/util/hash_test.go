package util

import "testing"

func TestSignHex(t *testing.T) {
	secret := []byte("s3cret")
	got := SignHex(secret, "user-u1/1_a.pdf|1700000000")
	if got != SignHex(secret, "user-u1/1_a.pdf|1700000000") {
		t.Fatalf("expected stable signature, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("signature contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	if !VerifyHex(secret, "user-u1/1_a.pdf|1700000000", got) {
		t.Fatalf("expected signature to verify")
	}
	if VerifyHex([]byte("other"), "user-u1/1_a.pdf|1700000000", got) {
		t.Fatalf("expected signature under another secret to fail")
	}
}
