package user

import "testing"

func TestPasswordHashAndVerify(t *testing.T) {
	salt, err := GenerateSaltHex()
	if err != nil {
		t.Fatalf("GenerateSaltHex: %v", err)
	}
	hash, err := HashPassword("p@ssw0rd", salt)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if !VerifyPassword("p@ssw0rd", salt, hash) {
		t.Fatalf("expected verify ok")
	}
	if VerifyPassword("wrong", salt, hash) {
		t.Fatalf("expected verify fail")
	}
}

func TestFilterProfileFields(t *testing.T) {
	got := FilterProfileFields(map[string]string{
		"phone_number": "13800000000",
		"lic_num":      "D1234567",
		"email":        "evil@example.com", // 不在允许名单
		"password":     "hack",             // 不在允许名单
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 updatable fields, got %d: %#v", len(got), got)
	}
	if got["phone_number"] != "13800000000" || got["lic_num"] != "D1234567" {
		t.Fatalf("unexpected filtered fields: %#v", got)
	}
}
