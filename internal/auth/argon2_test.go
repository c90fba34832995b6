package auth

import (
	"errors"
	"strings"
	"testing"
)

// cheapParams keeps the tests fast.
var cheapParams = Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestHashKey_Format(t *testing.T) {
	t.Parallel()

	hash, err := HashKey("usk_secret", DefaultParams)
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("Hash should be in PHC format, got: %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash should have 6 parts, got: %d", len(parts))
	}
	if parts[2] != "v=19" {
		t.Errorf("Expected v=19, got: %s", parts[2])
	}
	if parts[3] != "m=65536,t=3,p=4" {
		t.Errorf("Expected m=65536,t=3,p=4, got: %s", parts[3])
	}
}

func TestHashKey_Uniqueness(t *testing.T) {
	t.Parallel()

	hash1, err := HashKey("same-key", cheapParams)
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}
	hash2, err := HashKey("same-key", cheapParams)
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Same key should produce different hashes due to random salt")
	}

	for _, h := range []string{hash1, hash2} {
		v, err := NewVerifier(h)
		if err != nil {
			t.Fatalf("NewVerifier failed: %v", err)
		}
		if !v.Verify("same-key") {
			t.Error("Both hashes should verify correctly")
		}
	}
}

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	hash, err := HashKey("usk_right", cheapParams)
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}
	v, err := NewVerifier(hash)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"correct", "usk_right", true},
		{"wrong", "usk_wrong", false},
		{"empty", "", false},
		{"prefix only", KeyPrefix, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := v.Verify(tt.key); got != tt.want {
				t.Errorf("Verify(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}

	if p := v.Params(); p.Time != 1 || p.Memory != 8*1024 || p.Threads != 1 || p.KeyLen != 32 {
		t.Errorf("decoded params = %+v", p)
	}
}

func TestNewVerifier_InvalidHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hash    string
		wantErr error
	}{
		{"empty", "", ErrInvalidHash},
		{"wrong format", "not-a-hash", ErrInvalidHash},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA", ErrInvalidHash},
		{"wrong version", "$argon2id$v=16$m=65536,t=3,p=4$c2FsdA$aGFzaA", ErrIncompatibleVersion},
		{"bad params", "$argon2id$v=19$m=x,t=3,p=4$c2FsdA$aGFzaA", ErrInvalidHash},
		{"bad salt", "$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA", ErrInvalidHash},
		{"empty hash", "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$", ErrInvalidHash},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewVerifier(tt.hash)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewVerifier(%q) error = %v, want %v", tt.hash, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	k1, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	k2, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	if !strings.HasPrefix(k1, KeyPrefix) {
		t.Errorf("key %q missing prefix %q", k1, KeyPrefix)
	}
	if k1 == k2 {
		t.Error("generated keys should differ")
	}
	// 32 random bytes as unpadded base64url.
	if got := len(k1) - len(KeyPrefix); got != 43 {
		t.Errorf("encoded length = %d, want 43", got)
	}
}
