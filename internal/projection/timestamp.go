package projection

import "time"

// Timestamp serializes as ISO-8601 with millisecond precision and a literal
// Z suffix, e.g. "2016-02-18T03:22:56.637Z". This is a formatting contract:
// the instant is rendered in UTC regardless of the zone it was stored with.
type Timestamp time.Time

const timestampLayout = "2006-01-02T15:04:05.000Z"

func (t Timestamp) MarshalJSON() ([]byte, error) {
	formatted := time.Time(t).UTC().Format(timestampLayout)
	return []byte(`"` + formatted + `"`), nil
}

func (t Timestamp) String() string {
	return time.Time(t).UTC().Format(timestampLayout)
}
