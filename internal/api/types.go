package api

import "time"

const looseTimestampLayout = "2006-01-02 15:04:05"

// Object mirrors one entry of the /objects collection.
type Object struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Data      Attributes `json:"data"`
	CreatedAt string     `json:"createdAt,omitempty"`
	UpdatedAt string     `json:"updatedAt,omitempty"`
}

// Input is the body of a create or full replace.
type Input struct {
	Name string     `json:"name"`
	Data Attributes `json:"data"`
}

// Patch is the body of a partial update. Unset fields are not sent.
type Patch struct {
	Name *string    `json:"name,omitempty"`
	Data Attributes `json:"data,omitempty"`
}

// Clone returns a copy that shares no mutable state with o.
func (o Object) Clone() Object {
	o.Data = o.Data.Clone()
	return o
}

// ParsedCreatedAt returns the creation timestamp or the zero time.
func (o Object) ParsedCreatedAt() time.Time {
	return parseTime(o.CreatedAt)
}

// ParsedUpdatedAt returns the last update timestamp or the zero time.
func (o Object) ParsedUpdatedAt() time.Time {
	return parseTime(o.UpdatedAt)
}

// ParseTime parses the timestamp formats the API has been seen to return.
func ParseTime(value string) time.Time {
	return parseTime(value)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(looseTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
