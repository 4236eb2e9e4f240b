package entity

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// SessionDate is a calendar day without time of day, the format membership
// session dates use in the events fixture.
type SessionDate struct {
	time.Time
}

const sessionDateLayout = "2006-01-02"

func (d *SessionDate) UnmarshalJSON(b []byte) error {
	if len(b) < 2 {
		return fmt.Errorf("invalid session date %q", string(b))
	}
	s := string(b[1 : len(b)-1]) // Remove quotes
	t, err := time.Parse(sessionDateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d SessionDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(sessionDateLayout) + `"`), nil
}

func (d SessionDate) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *SessionDate) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case time.Time:
		d.Time = v
	case []byte:
		t, err := time.Parse(sessionDateLayout, string(v))
		if err != nil {
			return err
		}
		d.Time = t
	default:
		return fmt.Errorf("cannot scan type %T into SessionDate", value)
	}
	return nil
}
