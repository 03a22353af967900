package jwt

import "testing"

func TestIssueParse_RoundTrip(t *testing.T) {
	tok, err := Issue("secret", 42, "admin", 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := ParseAuth("Bearer "+tok, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub, _ := claims["sub"].(float64); int64(sub) != 42 {
		t.Fatalf("sub = %v, want 42", claims["sub"])
	}
	if role, _ := claims["role"].(string); role != "admin" {
		t.Fatalf("role = %v, want admin", claims["role"])
	}
}

func TestParseAuth_Rejects(t *testing.T) {
	if _, err := ParseAuth("", "secret"); err == nil {
		t.Fatal("expected error for empty header")
	}

	tok, err := Issue("secret", 1, "user", 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := ParseAuth("Bearer "+tok, "other-secret"); err == nil {
		t.Fatal("expected error for wrong secret")
	}
	if _, err := ParseAuth("Bearer not.a.token", "secret"); err == nil {
		t.Fatal("expected error for garbage token")
	}
}
