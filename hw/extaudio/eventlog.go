package extaudio

// Event is a channel level, as received by a Sink.
type Event struct {
	Channel Channel
	Time    uint32
	Level   int16
}

// EventLog is a Sink that records every event it receives.
type EventLog struct {
	Events []Event
}

func (l *EventLog) SetLevel(ch Channel, time uint32, level int16) {
	l.Events = append(l.Events, Event{Channel: ch, Time: time, Level: level})
}

func (l *EventLog) Reset() {
	l.Events = l.Events[:0]
}

type multiSink []Sink

func (ms multiSink) SetLevel(ch Channel, time uint32, level int16) {
	for _, s := range ms {
		s.SetLevel(ch, time, level)
	}
}

// Tee returns a Sink forwarding events to all the given sinks, in order.
func Tee(sinks ...Sink) Sink {
	return multiSink(sinks)
}
