// Package models holds the credential record as it is persisted.
package models

import (
	"encoding/json"
	"fmt"
	"maps"
)

const (
	fieldSalt = "salt"
	fieldKey  = "key"
)

// Profile carries auxiliary per-user fields. Values are kept as raw JSON so
// they survive a load/save cycle unchanged.
type Profile map[string]json.RawMessage

// DefaultProfile is attached to every newly registered user.
func DefaultProfile() Profile {
	return Profile{"example_data": json.RawMessage("0")}
}

// Record is one user's entry in the store. Salt and Key hold base64 text;
// decoding is the store's job.
//
// On disk the profile fields sit beside salt and key:
//
//	{"salt": "...", "key": "...", "example_data": 0}
type Record struct {
	Salt    string
	Key     string
	Profile Profile
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.Profile)+2)
	maps.Copy(out, r.Profile)

	salt, err := json.Marshal(r.Salt)
	if err != nil {
		return nil, err
	}
	key, err := json.Marshal(r.Key)
	if err != nil {
		return nil, err
	}
	out[fieldSalt] = salt
	out[fieldKey] = key
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("record is null")
	}

	var rec Record
	if raw, ok := fields[fieldSalt]; ok {
		if err := json.Unmarshal(raw, &rec.Salt); err != nil {
			return fmt.Errorf("field %q: %w", fieldSalt, err)
		}
		delete(fields, fieldSalt)
	}
	if raw, ok := fields[fieldKey]; ok {
		if err := json.Unmarshal(raw, &rec.Key); err != nil {
			return fmt.Errorf("field %q: %w", fieldKey, err)
		}
		delete(fields, fieldKey)
	}
	if len(fields) > 0 {
		rec.Profile = Profile(fields)
	}
	*r = rec
	return nil
}

// Clone returns a copy that shares no maps with r.
func (r Record) Clone() Record {
	c := r
	if r.Profile != nil {
		c.Profile = maps.Clone(r.Profile)
	}
	return c
}
