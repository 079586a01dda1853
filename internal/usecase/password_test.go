package usecase

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := hashPassword("secret123")
	if err != nil {
		t.Fatalf("hashPassword error: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash equals plaintext")
	}

	if !verifyPassword("secret123", hash) {
		t.Fatal("correct password did not verify")
	}
	if verifyPassword("secret124", hash) {
		t.Fatal("wrong password verified")
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	t.Parallel()

	h1, err := hashPassword("secret123")
	if err != nil {
		t.Fatalf("hashPassword error: %v", err)
	}
	h2, err := hashPassword("secret123")
	if err != nil {
		t.Fatalf("hashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	if verifyPassword("secret123", "") {
		t.Fatal("empty hash verified")
	}
	if verifyPassword("secret123", "not-a-bcrypt-hash") {
		t.Fatal("malformed hash verified")
	}
}
