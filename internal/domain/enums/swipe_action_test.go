package enums

import (
	"errors"
	"testing"
)

func TestParseSwipeAction(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    SwipeAction
		wantErr bool
	}{
		{name: "like", raw: "like", want: SwipeActionLike},
		{name: "upper pass", raw: "PASS", want: SwipeActionPass},
		{name: "padded like", raw: "  Like ", want: SwipeActionLike},
		{name: "superlike rejected", raw: "superlike", wantErr: true},
		{name: "empty rejected", raw: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSwipeAction(tc.raw)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownSwipeAction) {
					t.Fatalf("expected ErrUnknownSwipeAction, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse %q: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("unexpected action: got %q want %q", got, tc.want)
			}
		})
	}
}
