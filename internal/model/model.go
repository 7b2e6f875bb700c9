// Package model defines the account service entities shared by the client, resolver and builder.
package model

// Credentials are sent once to login/register and never persisted or logged.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the session issued by the account service.
type User struct {
	TokenID uint32 `json:"tokenId"`
	Token   string `json:"token"` // launcher requires exactly 16 characters
	Rights  uint32 `json:"rights"`
}

// Character is a playable character owned by the account.
type Character struct {
	ID        uint32 `json:"id"`
	Name      string `json:"name"`
	IsFemale  bool   `json:"isFemale"`
	Weapon    uint32 `json:"weapon"`
	HR        uint32 `json:"hr"`
	GR        uint32 `json:"gr"`
	LastLogin int32  `json:"lastLogin"` // unix seconds; <= 0 means never
}

// NeverLoggedIn reports whether the character has not entered the game yet.
func (c Character) NeverLoggedIn() bool { return c.LastLogin <= 0 }

// Notice is a server message shown by the launcher.
type Notice struct {
	Flags uint16 `json:"flags"`
	Data  string `json:"data"`
}

// MezFes is the MezFes event window. Stalls are raw server names.
type MezFes struct {
	ID           uint32   `json:"id"`
	Start        uint32   `json:"start"`
	End          uint32   `json:"end"`
	SoloTickets  uint32   `json:"soloTickets"`
	GroupTickets uint32   `json:"groupTickets"`
	Stalls       []string `json:"stalls"`
}

// SessionBundle is the login/register response: one snapshot of the account.
type SessionBundle struct {
	CurrentTS     uint32      `json:"currentTs"`
	ExpiryTS      uint32      `json:"expiryTs"`
	EntranceCount uint32      `json:"entranceCount"`
	Notices       []Notice    `json:"notices"`
	User          User        `json:"user"`
	Characters    []Character `json:"characters"`
	MezFes        MezFes      `json:"mezFes"`
	PatchServer   string      `json:"patchServer"`
}

// CharacterIDs returns the ids of every character in the snapshot, in server order.
func (b *SessionBundle) CharacterIDs() []uint32 {
	ids := make([]uint32, 0, len(b.Characters))
	for _, c := range b.Characters {
		ids = append(ids, c.ID)
	}
	return ids
}
