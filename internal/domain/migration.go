package domain

// MigrationMarker records the outcome of the one-time migration offer.
type MigrationMarker string

// Marker values. MarkerUnset is what an absent slot reads as.
const (
	MarkerUnset   MigrationMarker = ""
	MarkerDone    MigrationMarker = "done"
	MarkerSkipped MigrationMarker = "skipped"
)

// legacyMarkerDone is what older clients wrote after a successful run.
const legacyMarkerDone = "true"

// ParseMigrationMarker reads a stored marker value. Unknown values read as
// unset so the user is asked again rather than silently skipped.
func ParseMigrationMarker(raw string) MigrationMarker {
	switch raw {
	case string(MarkerDone), legacyMarkerDone:
		return MarkerDone
	case string(MarkerSkipped):
		return MarkerSkipped
	default:
		return MarkerUnset
	}
}

// IsSet reports whether the offer has been answered.
func (m MigrationMarker) IsSet() bool {
	return m == MarkerDone || m == MarkerSkipped
}

// String returns a display form; unset prints as "unset".
func (m MigrationMarker) String() string {
	if m == MarkerUnset {
		return "unset"
	}
	return string(m)
}

// MigrationResult summarizes one migration run against the server of record.
type MigrationResult struct {
	OwnerID  string `json:"owner_id"`
	Total    int    `json:"total"`
	Migrated int    `json:"migrated"`
	Skipped  int    `json:"skipped"`
	Message  string `json:"message"`
}
