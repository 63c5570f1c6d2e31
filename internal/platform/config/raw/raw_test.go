package raw

import "testing"

func TestGetWithPrefix(t *testing.T) {
	t.Setenv("LOG_LEVEL", " info ")
	c := New().Prefix("LOG_")
	if got := c.Get("LEVEL", "debug"); got != "info" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("MISSING", "fallback"); got != "fallback" {
		t.Fatalf("Get default = %q", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("X_FLAG", "yes")
	c := New().Prefix("X_")
	if !c.GetBool("FLAG", false) {
		t.Fatalf("yes should parse true")
	}
	if c.GetBool("OTHER", false) {
		t.Fatalf("missing should default")
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("X_N", "42")
	t.Setenv("X_BAD", "4x2")
	c := New().Prefix("X_")
	if got := c.GetInt("N", 7); got != 42 {
		t.Fatalf("GetInt = %d", got)
	}
	if got := c.GetInt("BAD", 7); got != 7 {
		t.Fatalf("GetInt bad = %d", got)
	}
}
