package auth

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	digest, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}

	if string(digest) == "correct horse battery staple" {
		t.Fatal("digest must not equal the plaintext")
	}

	match, err := VerifyPassword("correct horse battery staple", digest)
	if err != nil {
		t.Fatal(err)
	}
	if !match {
		t.Error("expected matching password to verify")
	}

	match, err = VerifyPassword("wrong password", digest)
	if err != nil {
		t.Fatal(err)
	}
	if match {
		t.Error("expected non-matching password to fail verification")
	}
}

func TestSetPasswordStoresDigestOnly(t *testing.T) {
	user := &User{Username: "jake", Email: "jake@jake.jake"}
	if err := user.SetPassword("jakejake"); err != nil {
		t.Fatal(err)
	}

	if len(user.Password) == 0 {
		t.Fatal("expected password digest to be set")
	}

	match, err := user.IsPasswordMatch("jakejake")
	if err != nil {
		t.Fatal(err)
	}
	if !match {
		t.Error("expected stored digest to verify against the plaintext")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	a := New("test-secret", time.Hour)
	user := &User{Username: "jake", Email: "jake@jake.jake"}

	token, err := a.GenerateToken(user)
	if err != nil {
		t.Fatal(err)
	}

	claim, err := a.Authenticate(token)
	if err != nil {
		t.Fatal(err)
	}

	if claim.Username != "jake" || claim.Email != "jake@jake.jake" {
		t.Errorf("unexpected claim: %+v", claim)
	}
}

func TestTokenRejectedWithWrongSecret(t *testing.T) {
	issuer := New("secret-one", time.Hour)
	verifier := New("secret-two", time.Hour)

	token, err := issuer.GenerateToken(&User{Username: "jake", Email: "jake@jake.jake"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := verifier.Authenticate(token); err == nil {
		t.Error("expected token signed with a different secret to be rejected")
	}
}

func TestAuthenticatedUserCacheKeyedByToken(t *testing.T) {
	a := New("test-secret", time.Hour)
	user := &User{Username: "jake", Email: "jake@jake.jake", Token: "token-one"}

	if _, ok := a.CachedAuthenticatedUser("token-one"); ok {
		t.Fatal("expected a miss before the user is cached")
	}

	a.CacheAuthenticatedUser(user)

	cached, ok := a.CachedAuthenticatedUser("token-one")
	if !ok {
		t.Fatal("expected a hit after caching")
	}
	if cached.Email != "jake@jake.jake" {
		t.Errorf("cached email = %q, want jake@jake.jake", cached.Email)
	}

	if _, ok := a.CachedAuthenticatedUser("token-two"); ok {
		t.Error("expected a different token to miss")
	}

	// Re-caching under the same token replaces the entry.
	updated := &User{Username: "jake", Email: "new@jake.jake", Token: "token-one"}
	a.CacheAuthenticatedUser(updated)

	cached, ok = a.CachedAuthenticatedUser("token-one")
	if !ok || cached.Email != "new@jake.jake" {
		t.Errorf("expected refreshed cache entry, got %+v (hit=%v)", cached, ok)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	a := New("test-secret", -time.Minute)

	token, err := a.GenerateToken(&User{Username: "jake", Email: "jake@jake.jake"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Authenticate(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}
