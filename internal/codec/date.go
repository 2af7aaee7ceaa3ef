package codec

import "time"

// DateLayout is the only accepted wire form for calendar dates.
const DateLayout = "2006-01-02"

// Date encodes a time.Time as a YYYY-MM-DD calendar date.
//
// The value's own calendar fields are used. Time of day and zone are dropped
// on encode and not restored on decode; decoded dates are UTC midnight.
type Date struct{}

var _ Codec[time.Time] = Date{}

func (Date) Encode(t time.Time) string {
	return t.Format(DateLayout)
}

func (Date) Decode(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, tokenError(s, err)
	}
	return t, nil
}
