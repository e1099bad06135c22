package auth

import (
	"testing"
	"time"
)

func newManager(accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		Secret:     []byte("test-secret"),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		Issuer:     "portfolio-backend",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newManager(15*time.Minute, time.Hour)

	token, err := m.NewAccessToken("admin")
	if err != nil {
		t.Fatalf("new access token: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("role = %q", claims.Role)
	}
	if claims.Issuer != "portfolio-backend" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := newManager(-time.Minute, time.Hour)

	token, err := m.NewAccessToken("admin")
	if err != nil {
		t.Fatalf("new access token: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatal("expired token parsed without error")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m := newManager(15*time.Minute, time.Hour)
	token, err := m.NewAccessToken("admin")
	if err != nil {
		t.Fatalf("new access token: %v", err)
	}

	other := newManager(15*time.Minute, time.Hour)
	other.Secret = []byte("different-secret")
	if _, err := other.Parse(token); err == nil {
		t.Fatal("token accepted with the wrong secret")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("password stored in clear")
	}
	if err := ComparePassword(hash, "correct horse battery"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("empty password accepted")
	}
	if err := ComparePassword("", "x"); err == nil {
		t.Fatal("empty hash accepted")
	}
}
