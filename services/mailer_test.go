package services

import (
	"strings"
	"testing"
	"time"
)

func TestBuildContactMessage(t *testing.T) {
	msg := BuildContactMessage("me@example.com", "me@example.com",
		"Carol", "carol@x.com", "555-0100", "hello there")

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	if !found {
		t.Fatalf("message has no header/body separator")
	}

	for _, want := range []string{
		"From: me@example.com",
		"To: me@example.com",
		"Subject: New Message",
		"Message-ID: <",
	} {
		if !strings.Contains(headers, want) {
			t.Fatalf("headers missing %q:\n%s", want, headers)
		}
	}

	for _, want := range []string{
		"Name: Carol",
		"Email: carol@x.com",
		"Phone: 555-0100",
		"Message: hello there",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestMessageIDsAreUnique(t *testing.T) {
	a := BuildContactMessage("m@x", "m@x", "n", "e", "p", "msg")
	b := BuildContactMessage("m@x", "m@x", "n", "e", "p", "msg")

	idOf := func(msg string) string {
		for _, line := range strings.Split(msg, "\r\n") {
			if strings.HasPrefix(line, "Message-ID: ") {
				return line
			}
		}
		t.Fatalf("no Message-ID header")
		return ""
	}
	if idOf(a) == idOf(b) {
		t.Fatalf("two messages share a Message-ID")
	}
}

func TestRelaySendRequiresConnect(t *testing.T) {
	relay := NewRelay("smtp.example.com", 587, "user", "pw", time.Second)
	if err := relay.Send("a@x", "a@x", "msg"); err == nil {
		t.Fatalf("send without connect succeeded")
	}
}

func TestRelayCloseIdempotent(t *testing.T) {
	relay := NewRelay("smtp.example.com", 587, "user", "pw", time.Second)
	if err := relay.Close(); err != nil {
		t.Fatalf("close before connect: %v", err)
	}
	if err := relay.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
