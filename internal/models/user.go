package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleOwner UserRole = "OWNER"
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// CanManageTasks reports whether the role may create, reassign or delete
// tasks for other users.
func (r UserRole) CanManageTasks() bool {
	return r == RoleOwner || r == RoleAdmin
}

// WorkDay describes a user's availability on a single weekday. When
// Active is set, Start and End are either both present (a timed band) or
// both absent, meaning the user covers the full organization shifts.
type WorkDay struct {
	Active  bool       `json:"active"`
	Virtual bool       `json:"virtual"`
	Start   *ClockTime `json:"start,omitempty"`
	End     *ClockTime `json:"end,omitempty"`
}

// Timed reports whether the work day carries an explicit start/end band.
func (w WorkDay) Timed() bool { return w.Start != nil && w.End != nil }

// WorkWeek is a fixed seven-entry work schedule addressed by weekday,
// Monday first. Using a fixed array rules out missing-key lookups for
// dynamic day names.
type WorkWeek [7]WorkDay

// Day returns the work day for the given weekday. Unknown weekday names
// yield an inactive zero day.
func (w WorkWeek) Day(day Weekday) WorkDay {
	idx := day.Index()
	if idx < 0 {
		return WorkDay{}
	}
	return w[idx]
}

// SetDay replaces the entry for the given weekday.
func (w *WorkWeek) SetDay(day Weekday, wd WorkDay) {
	if idx := day.Index(); idx >= 0 {
		w[idx] = wd
	}
}

// Validate checks the per-day start/end invariant.
func (w WorkWeek) Validate() error {
	for i, wd := range w {
		if !wd.Active {
			continue
		}
		if (wd.Start == nil) != (wd.End == nil) {
			return fmt.Errorf("work day %s: start and end must be set together", Weekdays[i])
		}
		if wd.Timed() && *wd.Start >= *wd.End {
			return fmt.Errorf("work day %s: start %s must be before end %s", Weekdays[i], wd.Start, wd.End)
		}
	}
	return nil
}

// Value implements driver.Valuer storing the week as JSONB keyed by
// weekday name.
func (w WorkWeek) Value() (driver.Value, error) {
	out := make(map[Weekday]WorkDay, len(Weekdays))
	for i, day := range Weekdays {
		out[day] = w[i]
	}
	return json.Marshal(out)
}

// Scan implements sql.Scanner reading the JSONB representation. Missing
// weekdays scan as inactive days.
func (w *WorkWeek) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into WorkWeek", src)
	}
	decoded := map[Weekday]WorkDay{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decode work week: %w", err)
	}
	for i, day := range Weekdays {
		w[i] = decoded[day]
	}
	return nil
}

// MarshalJSON renders the week as an object keyed by weekday name, the
// shape the frontend consumes.
func (w WorkWeek) MarshalJSON() ([]byte, error) {
	out := make(map[Weekday]WorkDay, len(Weekdays))
	for i, day := range Weekdays {
		out[day] = w[i]
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the weekday-keyed object shape.
func (w *WorkWeek) UnmarshalJSON(data []byte) error {
	decoded := map[Weekday]WorkDay{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	for day := range decoded {
		if !day.Valid() {
			return fmt.Errorf("unknown weekday %q in work week", day)
		}
	}
	for i, day := range Weekdays {
		w[i] = decoded[day]
	}
	return nil
}

// DefaultWorkWeek returns a week active Monday through Friday with no
// explicit hours, the shape new staff members are seeded with.
func DefaultWorkWeek() WorkWeek {
	var week WorkWeek
	for i, day := range Weekdays {
		week[i] = WorkDay{Active: !day.IsWeekend()}
	}
	return week
}

// Position is a display label for a staff member's role in the team.
type Position struct {
	FullName  string `json:"full_name"`
	ShortName string `json:"short_name"`
}

// Positions is a JSONB-backed list of position labels.
type Positions []Position

// Value implements driver.Valuer.
func (p Positions) Value() (driver.Value, error) {
	if p == nil {
		return json.Marshal([]Position{})
	}
	return json.Marshal([]Position(p))
}

// Scan implements sql.Scanner.
func (p *Positions) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Positions", src)
	}
	return json.Unmarshal(raw, (*[]Position)(p))
}

// User represents a staff member stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Name         string     `db:"name" json:"name"`
	Role         UserRole   `db:"role" json:"role"`
	Color        string     `db:"color" json:"color"`
	Active       bool       `db:"active" json:"active"`
	Positions    Positions  `db:"positions" json:"positions"`
	WorkWeek     WorkWeek   `db:"work_week" json:"work_week"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
