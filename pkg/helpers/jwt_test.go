package helpers_test

import (
	"strings"
	"testing"
	"time"

	"github.com/laavis/dev-link/pkg/helpers"
)

func TestJWTIssueVerify(t *testing.T) {
	m := helpers.NewJWTManager("test-secret", time.Hour)

	token, exp, err := m.Issue("64f0c2a9e3b1a4d5c6e7f801", "Alice", "https://gravatar.test/a")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if remaining := time.Until(exp); remaining < 59*time.Minute || remaining > time.Hour {
		t.Fatalf("unexpected expiry %v", exp)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "64f0c2a9e3b1a4d5c6e7f801" {
		t.Fatalf("uid = %q", claims.UserID)
	}
	if claims.Name != "Alice" || claims.Avatar != "https://gravatar.test/a" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestJWTVerifyExpired(t *testing.T) {
	m := helpers.NewJWTManager("test-secret", time.Second)
	token, _, err := m.Issue("u1", "Alice", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	time.Sleep(2 * time.Second)

	if _, err := m.Verify(token); err == nil {
		t.Fatal("expired token verified")
	}
}

func TestJWTVerifyWrongSecret(t *testing.T) {
	issuer := helpers.NewJWTManager("secret-a", time.Hour)
	verifier := helpers.NewJWTManager("secret-b", time.Hour)

	token, _, err := issuer.Issue("u1", "Alice", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("token signed with another secret verified")
	}
}

func TestJWTVerifyTampered(t *testing.T) {
	m := helpers.NewJWTManager("test-secret", time.Hour)
	token, _, err := m.Issue("u1", "Alice", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := m.Verify(tampered); err == nil {
		t.Fatal("tampered token verified")
	}
}

func TestJWTVerifyMalformed(t *testing.T) {
	m := helpers.NewJWTManager("test-secret", time.Hour)
	for _, in := range []string{"", "garbage", "a.b"} {
		if _, err := m.Verify(in); err == nil {
			t.Fatalf("malformed input %q verified", in)
		}
	}
}
