package marshal

import (
	stderrors "errors"
	"strings"
	"testing"

	berrors "github.com/quietterminal/neon-bridge/errors"
)

func TestParseRelayAddr(t *testing.T) {
	a, err := ParseRelayAddr("127.0.0.1:7777")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if a.Host != "127.0.0.1" || a.Port != 7777 {
		t.Fatalf("Got %+v", a)
	}
}

func TestParseRelayAddr_FirstColonSplits(t *testing.T) {
	// Host runs to the first colon; the rest must be a bare decimal port.
	if _, err := ParseRelayAddr("a:b:1"); err == nil {
		t.Fatal("Expected failure for multiple colons")
	}
}

func TestParseRelayAddr_Rejects(t *testing.T) {
	cases := []string{
		"",
		"no-colon",
		":7777",
		"host:",
		"host:abc",
		"host:-1",
		"host:65536",
		"host:77 77",
		strings.Repeat("h", 256) + ":7777",
	}

	for _, s := range cases {
		_, err := ParseRelayAddr(s)
		if err == nil {
			t.Errorf("Expected failure for %q", s)
			continue
		}
		if !stderrors.Is(err, &berrors.Error{Stage: berrors.StageMarshal, Kind: berrors.KindBadAddress}) {
			t.Errorf("Expected bad_address for %q, got %v", s, err)
		}
	}
}

func TestParseRelayAddr_Bounds(t *testing.T) {
	if _, err := ParseRelayAddr("h:0"); err != nil {
		t.Errorf("Port 0 should parse: %v", err)
	}
	if _, err := ParseRelayAddr("h:65535"); err != nil {
		t.Errorf("Port 65535 should parse: %v", err)
	}
	if _, err := ParseRelayAddr(strings.Repeat("h", 255) + ":1"); err != nil {
		t.Errorf("255-byte host should parse: %v", err)
	}
}

func TestRelayAddr_RoundTrip(t *testing.T) {
	cases := []RelayAddr{
		{Host: "localhost", Port: 0},
		{Host: "0.0.0.0", Port: 7777},
		{Host: "relay.example.com", Port: 65535},
		{Host: strings.Repeat("x", 255), Port: 1},
	}

	for _, want := range cases {
		got, err := ParseRelayAddr(want.String())
		if err != nil {
			t.Errorf("Round trip of %v failed: %v", want, err)
			continue
		}
		if got != want {
			t.Errorf("Round trip changed %v into %v", want, got)
		}
	}
}

func TestCheckString(t *testing.T) {
	if err := CheckString("name", "Alice"); err != nil {
		t.Errorf("ASCII should pass: %v", err)
	}
	if err := CheckString("name", "Ålice·世界"); err != nil {
		t.Errorf("Non-ASCII UTF-8 should pass: %v", err)
	}

	err := CheckString("name", string([]byte{0xff, 0xfe}))
	if err == nil {
		t.Fatal("Invalid UTF-8 should fail")
	}
	if !stderrors.Is(err, &berrors.Error{Stage: berrors.StageMarshal, Kind: berrors.KindInvalidUTF8}) {
		t.Errorf("Expected invalid_utf8, got %v", err)
	}
}
