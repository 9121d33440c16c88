package service

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateReferralCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := generateReferralCode()
		if err != nil {
			t.Fatalf("generate referral code failed: %v", err)
		}
		if len(code) != referralCodeLength {
			t.Fatalf("code length want %d got %d (%s)", referralCodeLength, len(code), code)
		}
		// 易混淆字符 0/O/1/I 不应出现
		if strings.ContainsAny(code, "0O1I") {
			t.Fatalf("code contains ambiguous characters: %s", code)
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 45 {
		t.Fatalf("expected mostly unique codes, got %d distinct of 50", len(seen))
	}
}

func TestGenerateBusinessNo(t *testing.T) {
	no, err := generateBusinessNo("PR")
	if err != nil {
		t.Fatalf("generate business no failed: %v", err)
	}
	if !strings.HasPrefix(no, "PR") {
		t.Fatalf("business no should carry prefix, got %s", no)
	}
	// PR + 14 位时间戳 + 6 位随机数
	if len(no) != 2+14+6 {
		t.Fatalf("business no length want 22 got %d (%s)", len(no), no)
	}
	for _, r := range no[2:] {
		if r < '0' || r > '9' {
			t.Fatalf("business no tail should be digits, got %s", no)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(errors.New("UNIQUE constraint failed: users.email")) {
		t.Fatalf("sqlite unique violation not recognized")
	}
	if !isUniqueViolation(errors.New(`duplicate key value violates unique constraint "idx_users_email"`)) {
		t.Fatalf("postgres unique violation not recognized")
	}
	if isUniqueViolation(nil) || isUniqueViolation(errors.New("connection refused")) {
		t.Fatalf("unrelated errors should not match")
	}
}
