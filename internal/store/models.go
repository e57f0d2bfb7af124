package store

import "time"

// Mode selects the matching granularity.
type Mode string

const (
	// ModeMeta matches preferred labels only, one per entity.
	ModeMeta Mode = "meta"
	// ModeNames matches every label variant pair.
	ModeNames Mode = "names"
)

// Valid reports whether the mode is a known matching mode.
func (m Mode) Valid() bool {
	return m == ModeMeta || m == ModeNames
}

// Label is one projected (row id, text) pair for matching. In meta mode the
// ID references an entity row, in names mode a label variant row.
type Label struct {
	ID   int64
	Text string
}

// MatchRecord is a scored pairing of one authority-side and one
// gazetteer-side label row.
type MatchRecord struct {
	DnbID int64
	GazID int64
	Score float64
}

// RunStatus is the terminal or in-flight state of a recorded match run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
	RunFailed    RunStatus = "failed"
)

// Run is one recorded engine invocation.
type Run struct {
	RunID          string
	Mode           Mode
	Threshold      float64
	Status         RunStatus
	PairsExamined  int64
	MatchesWritten int64
	StartedAt      time.Time
	FinishedAt     *time.Time
}

// GazName is one gazetteer title variant supplied at import time.
type GazName struct {
	Title string
	Lang  string
}

// GazPlace is a gazetteer entity with its labels and GND identifiers.
type GazPlace struct {
	GazID         string
	PrefTitle     string
	PrefTitleLang string
	Names         []GazName
	GndIDs        []string
}

// OldAuthority is a superseded authority number attached to a dnb entity.
type OldAuthority struct {
	Number string
	Prefix string
	GndID  string
}

// AuthorityPlace is an authority-file entity with its variant names and
// same-as identifiers.
type AuthorityPlace struct {
	DnbID       string
	PrefName    string
	OwlGeonames string
	OwlGnd      string
	OwlLoc      string
	OwlViaf     string
	OwlWikidata string
	VarNames    []string
	OldAuths    []OldAuthority
}

// Counts aggregates table sizes for status output.
type Counts struct {
	GazEntities  int64
	GazNames     int64
	DnbEntities  int64
	DnbNames     int64
	MetaMatches  int64
	NameMatches  int64
	RecordedRuns int64
}
