package logtail

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Field is one extra key/value of a structured log line.
type Field struct {
	Key   string
	Value string
}

// Entry is a parsed log line.
type Entry struct {
	Time    time.Time
	Level   string
	Logger  string
	Message string
	Fields  []Field
	Raw     string
}

// Keys the encoder writes that are not shown as fields.
var reserved = map[string]bool{
	"time": true, "level": true, "logger": true, "msg": true,
	"caller": true, "stacktrace": true, "pid": true,
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Parse decodes a JSON log line. Lines that are not JSON objects come
// back with the whole text as the message.
func Parse(line string) Entry {
	entry := Entry{Raw: line, Message: line}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return entry
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return entry
	}
	parsed := Entry{Raw: line}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return entry
		}
		key, ok := tok.(string)
		if !ok {
			return entry
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return entry
		}
		value := rawString(raw)
		switch key {
		case "time":
			if t, err := time.Parse(timeLayout, value); err == nil {
				parsed.Time = t
			} else if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
				parsed.Time = t
			}
		case "level":
			parsed.Level = value
		case "logger":
			parsed.Logger = value
		case "msg":
			parsed.Message = value
		}
		if !reserved[key] {
			parsed.Fields = append(parsed.Fields, Field{Key: key, Value: value})
		}
	}
	return parsed
}

// Tail reads and parses the last maxLines lines of path.
func Tail(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
