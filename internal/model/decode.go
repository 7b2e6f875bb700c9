package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// requireKeys checks that raw is a JSON object holding every key, spelled
// exactly, with a non-null value. A key that only differs in case from an
// expected one is rejected since encoding/json would otherwise accept it.
func requireKeys(raw []byte, keys ...string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}
	if obj == nil {
		return fmt.Errorf("expected object, got %s", raw)
	}
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			return fmt.Errorf("missing field %q", k)
		}
		if string(v) == "null" {
			return fmt.Errorf("field %q is null", k)
		}
	}
	for got := range obj {
		for _, k := range keys {
			if got != k && strings.EqualFold(got, k) {
				return fmt.Errorf("unexpected field %q, want %q", got, k)
			}
		}
	}
	return nil
}

func (u *User) UnmarshalJSON(raw []byte) error {
	type plain User
	if err := requireKeys(raw, "tokenId", "token", "rights"); err != nil {
		return fmt.Errorf("user: %w", err)
	}
	return json.Unmarshal(raw, (*plain)(u))
}

func (c *Character) UnmarshalJSON(raw []byte) error {
	type plain Character
	if err := requireKeys(raw, "id", "name", "isFemale", "weapon", "hr", "gr", "lastLogin"); err != nil {
		return fmt.Errorf("character: %w", err)
	}
	return json.Unmarshal(raw, (*plain)(c))
}

func (n *Notice) UnmarshalJSON(raw []byte) error {
	type plain Notice
	if err := requireKeys(raw, "flags", "data"); err != nil {
		return fmt.Errorf("notice: %w", err)
	}
	return json.Unmarshal(raw, (*plain)(n))
}

func (m *MezFes) UnmarshalJSON(raw []byte) error {
	type plain MezFes
	if err := requireKeys(raw, "id", "start", "end", "soloTickets", "groupTickets", "stalls"); err != nil {
		return fmt.Errorf("mezFes: %w", err)
	}
	return json.Unmarshal(raw, (*plain)(m))
}

// UnmarshalJSON decodes a login/register response. Every field is required at
// every level; nested objects validate themselves.
func (b *SessionBundle) UnmarshalJSON(raw []byte) error {
	type plain SessionBundle
	if err := requireKeys(raw, "currentTs", "expiryTs", "entranceCount", "notices",
		"user", "characters", "mezFes", "patchServer"); err != nil {
		return err
	}
	return json.Unmarshal(raw, (*plain)(b))
}
