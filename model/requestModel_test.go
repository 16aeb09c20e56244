package model

import "testing"

func TestParseRequestStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "ACCEPTED", "REJECTED"} {
		if _, ok := ParseRequestStatus(s); !ok {
			t.Fatalf("expected %q to parse", s)
		}
	}
	for _, s := range []string{"", "pending", "CANCELED", "ACTIVE"} {
		if _, ok := ParseRequestStatus(s); ok {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestRequestStatusLive(t *testing.T) {
	if !RequestPending.Live() || !RequestAccepted.Live() {
		t.Fatal("PENDING and ACCEPTED are live statuses")
	}
	if RequestRejected.Live() {
		t.Fatal("REJECTED is terminal, not live")
	}
}
