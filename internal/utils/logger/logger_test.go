package logger

import "testing"

func TestRedact_HidesSecrets(t *testing.T) {
	out := redact([]interface{}{"user_id", "42", "auth_token", "abc.def.ghi", "Password", "hunter2", "dangling"})

	want := []interface{}{"user_id", "42", "auth_token", "[REDACTED]", "Password", "[REDACTED]", "dangling"}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(out), len(want), out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}
