package backend

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"time"
)

const maxEventBytes = 1 << 20

// Event is one dispatched server-sent event.
type Event struct {
	ID    string
	Type  string
	Data  []byte
	Retry time.Duration
}

// eventReader decodes a text/event-stream body into Events following the
// WHATWG dispatch rules: fields accumulate until a blank line, comments are
// skipped, and an unterminated trailing event is discarded.
type eventReader struct {
	scanner *bufio.Scanner
	first   bool
}

func newEventReader(r io.Reader) *eventReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxEventBytes)
	return &eventReader{scanner: sc, first: true}
}

// Next blocks until a complete event is available. It returns io.EOF when the
// stream ends cleanly.
func (r *eventReader) Next() (Event, error) {
	var (
		evt     Event
		data    bytes.Buffer
		hasData bool
	)
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if r.first {
			line = bytes.TrimPrefix(line, []byte("\xef\xbb\xbf"))
			r.first = false
		}
		if len(line) == 0 {
			if !hasData {
				evt = Event{ID: evt.ID}
				continue
			}
			evt.Data = bytes.TrimSuffix(data.Bytes(), []byte("\n"))
			return evt, nil
		}
		if line[0] == ':' {
			continue
		}
		field, value := line, []byte(nil)
		if i := bytes.IndexByte(line, ':'); i >= 0 {
			field = line[:i]
			value = bytes.TrimPrefix(line[i+1:], []byte(" "))
		}
		switch string(field) {
		case "data":
			data.Write(value)
			data.WriteByte('\n')
			hasData = true
		case "event":
			evt.Type = string(value)
		case "id":
			if bytes.IndexByte(value, 0) < 0 {
				evt.ID = string(value)
			}
		case "retry":
			if ms, err := strconv.Atoi(string(value)); err == nil && ms >= 0 {
				evt.Retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
	if err := r.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// isMessage reports whether evt should reach an onmessage-style handler.
func isMessage(evt Event) bool {
	return evt.Type == "" || evt.Type == "message"
}

var errStreamContentType = errors.New("progress stream did not return text/event-stream")
