package progress

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// WriteLog drains events into w as JSON lines until the channel is closed.
// It returns the number of events written.
func WriteLog(w io.Writer, events <-chan Event) (int, error) {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	n := 0
	for ev := range events {
		if err := enc.Encode(ev); err != nil {
			return n, fmt.Errorf("encode event: %w", err)
		}
		n++
		// Flush per event so a crashed session still leaves a usable log.
		if err := bw.Flush(); err != nil {
			return n, fmt.Errorf("flush event log: %w", err)
		}
	}
	return n, bw.Flush()
}

// ReadLog parses a log written by WriteLog. Blank lines are skipped.
func ReadLog(r io.Reader) ([]Event, error) {
	var events []Event
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return events, fmt.Errorf("event log line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	return events, sc.Err()
}
