package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAccessTokenTTL(t *testing.T) {
	t.Run("uses exp claim", func(t *testing.T) {
		access := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(2 * time.Hour).Unix()})
		ttl := AccessTokenTTL(access)
		if ttl < 119*time.Minute || ttl > 2*time.Hour {
			t.Errorf("ttl = %s, want about 2h", ttl)
		}
	})

	t.Run("expired token falls back", func(t *testing.T) {
		access := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
		if ttl := AccessTokenTTL(access); ttl != SessionFallbackTTL {
			t.Errorf("ttl = %s, want fallback", ttl)
		}
	})

	t.Run("missing exp falls back", func(t *testing.T) {
		access := signedToken(t, jwt.MapClaims{"sub": "42"})
		if ttl := AccessTokenTTL(access); ttl != SessionFallbackTTL {
			t.Errorf("ttl = %s, want fallback", ttl)
		}
	})

	t.Run("garbage token falls back", func(t *testing.T) {
		if ttl := AccessTokenTTL("not-a-jwt"); ttl != SessionFallbackTTL {
			t.Errorf("ttl = %s, want fallback", ttl)
		}
	})
}

func TestMaskMobile(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9876543210", "******3210"},
		{"1234", "1234"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := MaskMobile(tc.in); got != tc.want {
			t.Errorf("MaskMobile(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
