package domain

import (
	"encoding/json"
	"time"
)

// ScanRecord is an audit entry of a finished scan. Records are written after the fact and are
// never consulted to answer a new scan.
type ScanRecord struct {
	ID        string          `json:"id"         db:"id"`
	Token     string          `json:"token"      db:"token"`
	Score     int             `json:"score"      db:"score"`
	Verdict   Verdict         `json:"verdict"    db:"verdict"`
	Summary   string          `json:"summary"    db:"summary"`
	Report    json.RawMessage `json:"report"     db:"report"`
	ScannedAt time.Time       `json:"scanned_at" db:"scanned_at"`
}
