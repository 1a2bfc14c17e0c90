package utils

import (
	"testing"
	"time"
)

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundtrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken(7, "alice", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := ParseToken("not-a-token"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestTokenBlacklist(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	BlacklistToken("tok-a", time.Now().Add(time.Hour))
	if !IsTokenBlacklisted("tok-a") {
		t.Error("revoked token not blacklisted")
	}
	if IsTokenBlacklisted("tok-b") {
		t.Error("unrelated token blacklisted")
	}

	BlacklistToken("tok-expired", time.Now().Add(-time.Minute))
	if IsTokenBlacklisted("tok-expired") {
		t.Error("already-expired token should not stay blacklisted")
	}
}
