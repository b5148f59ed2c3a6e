package password

import (
	"errors"
	"strings"
	"testing"
)

func testHasher(t *testing.T) *Argon2 {
	t.Helper()

	h, err := NewArgon2(Config{
		Memory:      16 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}
	return h
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := testHasher(t)

	digest, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$") {
		t.Fatalf("expected PHC argon2id prefix, got %q", digest)
	}

	ok, err := h.Verify("correct horse battery staple", digest)
	if err != nil || !ok {
		t.Fatalf("expected verify success, ok=%v err=%v", ok, err)
	}

	ok, err = h.Verify("wrong password", digest)
	if err != nil {
		t.Fatalf("Verify returned error for mismatch: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch for wrong password")
	}
}

func TestHashProducesUniqueSalts(t *testing.T) {
	h := testHasher(t)

	d1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	d2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if d1 == d2 {
		t.Fatal("expected distinct digests for identical passwords")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := testHasher(t)

	cases := []string{
		"",
		"not-a-phc-string",
		"$argon2id$v=19$m=16384,t=1,p=1$short",
		"$argon2i$v=19$m=16384,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=18$m=16384,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=16384,t=1,p=1$!!!$aGFzaA",
	}

	for _, digest := range cases {
		if _, err := h.Verify("anything", digest); err == nil {
			t.Fatalf("expected error for digest %q", digest)
		}
	}

	if _, err := h.Verify("anything", "garbage"); !errors.Is(err, ErrHashMalformed) {
		t.Fatalf("expected ErrHashMalformed, got %v", err)
	}
}

func TestNewArgon2RejectsWeakParams(t *testing.T) {
	weak := []Config{
		{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		{Memory: 16 * 1024, Time: 0, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		{Memory: 16 * 1024, Time: 1, Parallelism: 0, SaltLength: 16, KeyLength: 32},
		{Memory: 16 * 1024, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 32},
		{Memory: 16 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 8},
	}

	for i, cfg := range weak {
		if _, err := NewArgon2(cfg); err == nil {
			t.Fatalf("case %d: expected config rejection", i)
		}
	}
}
