package config_test

import (
	"testing"

	"github.com/seanzhanng/teaelo/internal/config"
)

func TestCheckWebTokenUnset(t *testing.T) {
	c := config.Config{WebToken: ""}
	if err := c.CheckWebToken(""); err == nil {
		t.Error("expected error on empty configured token")
	}
}

func TestCheckWebTokenTooShort(t *testing.T) {
	c := config.Config{WebToken: "hunter2"}
	if err := c.CheckWebToken("hunter2"); err == nil {
		t.Error("expected error on short configured token")
	}
}

func TestCheckWebToken(t *testing.T) {
	c := config.Config{WebToken: "00000000000000000000000000000000"}
	if err := c.CheckWebToken("00000000000000000000000000000000"); err != nil {
		t.Fatal(err)
	}
}

func TestCheckWebTokenMismatch(t *testing.T) {
	c := config.Config{WebToken: "00000000000000000000000000000000"}
	if err := c.CheckWebToken("11111111111111111111111111111111"); err == nil {
		t.Fatal("expected bad token")
	}
}
