// Package launchcfg builds, validates and persists the launch configuration
// consumed by the MHF launcher.
package launchcfg

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/and161185/mhf-auth/internal/errs"
	"github.com/and161185/mhf-auth/internal/model"
)

// DefaultSignPort is the sign server port used when the endpoint URL has none.
const DefaultSignPort = 53312

// TokenLength is the exact session token length the launcher accepts.
const TokenLength = 16

// Configuration is the launch record written to config.json.
// Field order is the on-disk key order.
type Configuration struct {
	CharID          uint32         `json:"char_id"`
	CharName        string         `json:"char_name"`
	CharGR          uint32         `json:"char_gr"`
	CharHR          uint32         `json:"char_hr"`
	CharIDs         []uint32       `json:"char_ids"`
	CharNew         bool           `json:"char_new"`
	UserTokenID     uint32         `json:"user_token_id"`
	UserToken       string         `json:"user_token"`
	UserName        string         `json:"user_name"`
	UserPassword    string         `json:"user_password"`
	UserRights      uint32         `json:"user_rights"`
	ServerHost      string         `json:"server_host"`
	ServerPort      uint32         `json:"server_port"`
	EntranceCount   uint32         `json:"entrance_count"`
	CurrentTS       uint32         `json:"current_ts"`
	ExpiryTS        uint32         `json:"expiry_ts"`
	Notices         []model.Notice `json:"notices"`
	MezEventID      uint32         `json:"mez_event_id"`
	MezStart        uint32         `json:"mez_start"`
	MezEnd          uint32         `json:"mez_end"`
	MezSoloTickets  uint32         `json:"mez_solo_tickets"`
	MezGroupTickets uint32         `json:"mez_group_tickets"`
	MezStalls       []MezFesStall  `json:"mez_stalls"`
	Version         Version        `json:"version"`

	// Launcher-only overrides, never set here.
	MHFFolder *string   `json:"mhf_folder,omitempty"`
	MHFFlags  []CliFlag `json:"mhf_flags,omitempty"`
}

// Build maps a login snapshot and the selected character into a Configuration.
// char_ids come from the snapshot as fetched, even if a character was created since.
func Build(server string, b *model.SessionBundle, selectedID uint32, ch model.Character) (Configuration, error) {
	host, port, err := ResolveEndpoint(server)
	if err != nil {
		return Configuration{}, err
	}

	notices := make([]model.Notice, len(b.Notices))
	copy(notices, b.Notices)

	return Configuration{
		CharID:          selectedID,
		CharName:        ch.Name,
		CharGR:          ch.GR,
		CharHR:          ch.HR,
		CharIDs:         b.CharacterIDs(),
		UserTokenID:     b.User.TokenID,
		UserToken:       b.User.Token,
		UserRights:      b.User.Rights,
		ServerHost:      host,
		ServerPort:      port,
		EntranceCount:   b.EntranceCount,
		CurrentTS:       b.CurrentTS,
		ExpiryTS:        b.ExpiryTS,
		Notices:         notices,
		MezEventID:      b.MezFes.ID,
		MezStart:        b.MezFes.Start,
		MezEnd:          b.MezFes.End,
		MezSoloTickets:  b.MezFes.SoloTickets,
		MezGroupTickets: b.MezFes.GroupTickets,
		MezStalls:       MapStalls(b.MezFes.Stalls),
		Version:         DefaultVersion,
	}, nil
}

// ResolveEndpoint extracts the sign server host and port from the API URL.
// A URL without an explicit port resolves to DefaultSignPort.
func ResolveEndpoint(server string) (string, uint32, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", errs.ErrInvalidServerURL, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", 0, fmt.Errorf("%w: no host in %q", errs.ErrInvalidServerURL, server)
	}
	p := u.Port()
	if p == "" {
		return host, DefaultSignPort, nil
	}
	port, err := strconv.ParseUint(p, 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("%w: bad port %q", errs.ErrInvalidServerURL, p)
	}
	return host, uint32(port), nil
}

// Validate applies the launcher's entry checks.
func Validate(c Configuration) error {
	if len(c.UserToken) != TokenLength {
		return fmt.Errorf("%w: got %d, want %d", errs.ErrTokenLength, len(c.UserToken), TokenLength)
	}
	return nil
}
