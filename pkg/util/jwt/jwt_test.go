package jwt

import (
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	Init("test-secret-at-least-32-characters!!", 15, 168)

	token, err := GenerateAccessToken("U123", "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "U123" || claims.Username != "alice" {
		t.Fatalf("claims = %s/%s", claims.UserID, claims.Username)
	}
	if claims.Subject != "access_token" {
		t.Fatalf("subject = %s, want access_token", claims.Subject)
	}
	if claims.TokenID != "" {
		t.Fatal("access token must not carry a token id")
	}
}

func TestRefreshTokenCarriesTokenID(t *testing.T) {
	Init("test-secret-at-least-32-characters!!", 15, 168)

	token, tokenID, err := GenerateRefreshToken("U123", "alice")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if tokenID == "" {
		t.Fatal("refresh token id must not be empty")
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "refresh_token" {
		t.Fatalf("subject = %s, want refresh_token", claims.Subject)
	}
	if claims.TokenID != tokenID {
		t.Fatalf("claims token id %s != returned %s", claims.TokenID, tokenID)
	}
}

func TestParseTokenRejectsTampered(t *testing.T) {
	Init("test-secret-at-least-32-characters!!", 15, 168)

	token, err := GenerateAccessToken("U123", "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	// 换密钥后旧 Token 必须失效
	Init("another-secret-also-32-characters!!!", 15, 168)
	if _, err := ParseToken(token); err == nil {
		t.Fatal("token signed with old secret should be rejected")
	}

	if _, err := ParseToken("not.a.jwt"); err == nil {
		t.Fatal("garbage token should be rejected")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	// 有效期 0 分钟，签发即过期
	Init("test-secret-at-least-32-characters!!", 0, 168)

	token, err := GenerateAccessToken("U123", "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Fatal("expired token should be rejected")
	}
}
