// File: /models/types.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice is a custom type for handling JSON arrays of strings in database
type StringSlice []string

// Value implements driver.Valuer interface for database storage
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return nil, nil
	}
	return json.Marshal(ss)
}

// Scan implements sql.Scanner interface for database retrieval
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ss)
	case string:
		return json.Unmarshal([]byte(v), ss)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// GormDataType returns the data type for GORM
func (StringSlice) GormDataType() string {
	return "json"
}

// MarshalJSON implements json.Marshaler interface
func (ss StringSlice) MarshalJSON() ([]byte, error) {
	if ss == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(ss))
}

// AttendeeList stores the nested attendee snapshots of a meetup as a JSON column
type AttendeeList []Attendee

func (al AttendeeList) Value() (driver.Value, error) {
	if al == nil {
		return json.Marshal(AttendeeList{})
	}
	return json.Marshal(al)
}

func (al *AttendeeList) Scan(value interface{}) error {
	if value == nil {
		*al = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, al)
	case string:
		return json.Unmarshal([]byte(v), al)
	default:
		return fmt.Errorf("cannot scan %T into AttendeeList", value)
	}
}

func (AttendeeList) GormDataType() string {
	return "json"
}

func (al AttendeeList) MarshalJSON() ([]byte, error) {
	if al == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Attendee(al))
}

// ParticipantDetailMap stores per-user name/picture snapshots keyed by user id
type ParticipantDetailMap map[string]ParticipantDetail

func (pd ParticipantDetailMap) Value() (driver.Value, error) {
	if pd == nil {
		return json.Marshal(ParticipantDetailMap{})
	}
	return json.Marshal(pd)
}

func (pd *ParticipantDetailMap) Scan(value interface{}) error {
	if value == nil {
		*pd = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, pd)
	case string:
		return json.Unmarshal([]byte(v), pd)
	default:
		return fmt.Errorf("cannot scan %T into ParticipantDetailMap", value)
	}
}

func (ParticipantDetailMap) GormDataType() string {
	return "json"
}

// CounterMap stores per-user integer counters (e.g. unread counts) keyed by user id
type CounterMap map[string]int

func (cm CounterMap) Value() (driver.Value, error) {
	if cm == nil {
		return json.Marshal(CounterMap{})
	}
	return json.Marshal(cm)
}

func (cm *CounterMap) Scan(value interface{}) error {
	if value == nil {
		*cm = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, cm)
	case string:
		return json.Unmarshal([]byte(v), cm)
	default:
		return fmt.Errorf("cannot scan %T into CounterMap", value)
	}
}

func (CounterMap) GormDataType() string {
	return "json"
}
