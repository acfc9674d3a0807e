package extaudio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ev(ch Channel, time uint32, level int16) Event {
	return Event{Channel: ch, Time: time, Level: level}
}

func wantEvents(t *testing.T, log *EventLog, want []Event) {
	t.Helper()

	got := log.Events
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func levels(events []Event) []int16 {
	lvls := make([]int16, len(events))
	for i, e := range events {
		lvls[i] = e.Level
	}
	return lvls
}
