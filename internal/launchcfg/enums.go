package launchcfg

import (
	"fmt"
	"slices"
)

// enumTable is a fixed bidirectional mapping between enumeration values and their wire names.
type enumTable[T comparable] struct {
	kind   string
	names  map[T]string
	byName map[string]T
}

func newEnumTable[T comparable](kind string, names map[T]string) enumTable[T] {
	byName := make(map[string]T, len(names))
	for v, n := range names {
		byName[n] = v
	}
	return enumTable[T]{kind: kind, names: names, byName: byName}
}

func (t enumTable[T]) name(v T) (string, bool) {
	n, ok := t.names[v]
	return n, ok
}

func (t enumTable[T]) parse(s string) (T, bool) {
	v, ok := t.byName[s]
	return v, ok
}

func (t enumTable[T]) marshal(v T) ([]byte, error) {
	n, ok := t.names[v]
	if !ok {
		return nil, fmt.Errorf("unknown %s %v", t.kind, v)
	}
	return []byte(n), nil
}

func (t enumTable[T]) unmarshal(text []byte, dst *T) error {
	v, ok := t.byName[string(text)]
	if !ok {
		return fmt.Errorf("unknown %s %q", t.kind, text)
	}
	*dst = v
	return nil
}

// MezFesStall is a MezFes stall kind. Values are the launcher's discriminants.
type MezFesStall uint32

const (
	StallTokotokoPartnya   MezFesStall = 2
	StallPachinko          MezFesStall = 3
	StallVolpakkunTogether MezFesStall = 4
	StallGoocooScoop       MezFesStall = 5
	StallNyanrendo         MezFesStall = 6
	StallHoneyPanic        MezFesStall = 7
	StallDokkanBattleCats  MezFesStall = 8
	StallPointStall        MezFesStall = 9
	StallMap               MezFesStall = 10
)

var stalls = newEnumTable("mezfes stall", map[MezFesStall]string{
	StallTokotokoPartnya:   "TokotokoPartnya",
	StallPachinko:          "Pachinko",
	StallVolpakkunTogether: "VolpakkunTogether",
	StallGoocooScoop:       "GoocooScoop",
	StallNyanrendo:         "Nyanrendo",
	StallHoneyPanic:        "HoneyPanic",
	StallDokkanBattleCats:  "DokkanBattleCats",
	StallPointStall:        "PointStall",
	StallMap:               "StallMap",
})

// ParseStall looks up a server stall name.
func ParseStall(name string) (MezFesStall, bool) { return stalls.parse(name) }

func (s MezFesStall) String() string {
	if n, ok := stalls.name(s); ok {
		return n
	}
	return fmt.Sprintf("MezFesStall(%d)", uint32(s))
}

func (s MezFesStall) MarshalText() ([]byte, error)  { return stalls.marshal(s) }
func (s *MezFesStall) UnmarshalText(b []byte) error { return stalls.unmarshal(b, s) }

// MapStalls converts server stall names, dropping names this build does not know.
// Survivors keep the server's order.
func MapStalls(names []string) []MezFesStall {
	out := make([]MezFesStall, 0, len(names))
	for _, n := range names {
		if s, ok := ParseStall(n); ok {
			out = append(out, s)
		}
	}
	return out
}

// Version is the client protocol version the launcher speaks.
type Version uint8

const (
	VersionZZ Version = 1
	VersionF5 Version = 2
)

// DefaultVersion is the only version this build produces.
const DefaultVersion = VersionZZ

var versions = newEnumTable("version", map[Version]string{
	VersionZZ: "ZZ",
	VersionF5: "F5",
})

func (v Version) String() string {
	if n, ok := versions.name(v); ok {
		return n
	}
	return fmt.Sprintf("Version(%d)", uint8(v))
}

func (v Version) MarshalText() ([]byte, error)  { return versions.marshal(v) }
func (v *Version) UnmarshalText(b []byte) error { return versions.unmarshal(b, v) }

// CliFlag is a launcher command-line switch. Only the launcher sets these.
type CliFlag uint8

const (
	FlagSelfup CliFlag = iota + 1
	FlagRestat
	FlagAutolc
	FlagHanres
	FlagDmmBoot
	FlagDmmSelfup
	FlagDmmAutolc
	FlagDmmReboot
	FlagNpge
	FlagNpMhfoTest
)

var cliFlags = newEnumTable("launcher flag", map[CliFlag]string{
	FlagSelfup:     "Selfup",
	FlagRestat:     "Restat",
	FlagAutolc:     "Autolc",
	FlagHanres:     "Hanres",
	FlagDmmBoot:    "DmmBoot",
	FlagDmmSelfup:  "DmmSelfup",
	FlagDmmAutolc:  "DmmAutolc",
	FlagDmmReboot:  "DmmReboot",
	FlagNpge:       "Npge",
	FlagNpMhfoTest: "NpMhfoTest",
})

// ParseCliFlag looks up a launcher flag by name.
func ParseCliFlag(name string) (CliFlag, bool) { return cliFlags.parse(name) }

func (f CliFlag) String() string {
	if n, ok := cliFlags.name(f); ok {
		return n
	}
	return fmt.Sprintf("CliFlag(%d)", uint8(f))
}

func (f CliFlag) MarshalText() ([]byte, error)  { return cliFlags.marshal(f) }
func (f *CliFlag) UnmarshalText(b []byte) error { return cliFlags.unmarshal(b, f) }

// StallNames lists every known stall name in discriminant order.
func StallNames() []string {
	keys := make([]MezFesStall, 0, len(stalls.names))
	for k := range stalls.names {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, stalls.names[k])
	}
	return out
}
