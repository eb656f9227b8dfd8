package auth

import (
	"testing"
	"time"

	"salachat/module/chat/model"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	j := NewJWT(DefaultOptions([]byte("secreto")))
	tok, err := j.Sign(model.Identity{ID: "u1", Name: "Ana", Color: "#f00"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	id, err := j.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.ID != "u1" || id.Name != "Ana" || id.Color != "#f00" {
		t.Fatalf("got %+v", id)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	j := NewJWT(DefaultOptions([]byte("secreto")))
	tok, err := j.Sign(model.Identity{ID: "u1", Name: "Ana"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	other := NewJWT(DefaultOptions([]byte("otro")))
	if _, err := other.Verify(tok); err == nil {
		t.Fatalf("expected verification failure")
	}
}

func TestVerifyRejectsEmptyAndGarbage(t *testing.T) {
	j := NewJWT(DefaultOptions([]byte("secreto")))
	if _, err := j.Verify(""); err == nil {
		t.Fatalf("empty token accepted")
	}
	if _, err := j.Verify("not.a.jwt"); err == nil {
		t.Fatalf("garbage token accepted")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	j := NewJWT(DefaultOptions([]byte("secreto")))
	// NewJWT normalizes non-positive TTLs, so force the expiry after the fact.
	j.opts.TTL = -time.Minute
	tok, err := j.Sign(model.Identity{ID: "u1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := j.Verify(tok); err == nil {
		t.Fatalf("expired token accepted")
	}
}
