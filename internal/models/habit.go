package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DayOfWeek is the weekday a habit is scheduled for
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"

	DefaultDayOfWeek = Monday
)

// Days lists every weekday in display order (monday first)
var Days = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Category groups habits for filtering
type Category string

const (
	CategoryHealth       Category = "Salud"
	CategoryProductivity Category = "Productividad"
	CategoryPersonal     Category = "Personal"

	DefaultCategory = CategoryPersonal
)

// Categories lists the closed set of habit categories
var Categories = []Category{CategoryHealth, CategoryProductivity, CategoryPersonal}

var (
	ErrEmptyName       = errors.New("habit name cannot be empty")
	ErrInvalidDay      = errors.New("invalid day of week")
	ErrInvalidCategory = errors.New("invalid category")
)

var dayAliases = map[string]DayOfWeek{
	"mon":       Monday,
	"monday":    Monday,
	"tue":       Tuesday,
	"tuesday":   Tuesday,
	"wed":       Wednesday,
	"wednesday": Wednesday,
	"thu":       Thursday,
	"thursday":  Thursday,
	"fri":       Friday,
	"friday":    Friday,
	"sat":       Saturday,
	"saturday":  Saturday,
	"sun":       Sunday,
	"sunday":    Sunday,
}

// ParseDayOfWeek accepts full or three-letter weekday names in any case
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	if d, ok := dayAliases[strings.TrimSpace(strings.ToLower(s))]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

func (d DayOfWeek) Valid() bool {
	for _, day := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// Weekday converts to the time package representation
func (d DayOfWeek) Weekday() time.Weekday {
	switch d {
	case Tuesday:
		return time.Tuesday
	case Wednesday:
		return time.Wednesday
	case Thursday:
		return time.Thursday
	case Friday:
		return time.Friday
	case Saturday:
		return time.Saturday
	case Sunday:
		return time.Sunday
	default:
		return time.Monday
	}
}

// DayOfWeekFor returns the DayOfWeek matching a time.Weekday
func DayOfWeekFor(wd time.Weekday) DayOfWeek {
	if wd == time.Sunday {
		return Sunday
	}
	return Days[int(wd)-1]
}

// ParseCategory matches a category name case-insensitively
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

func (c Category) Valid() bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Habit is a recurring activity as known to the remote service
type Habit struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	DayOfWeek   DayOfWeek `json:"dayOfWeek" yaml:"day_of_week"`
	Category    Category  `json:"category,omitempty" yaml:"category,omitempty"`
}

// Normalize fills in defaults for fields the remote service may omit
func (h Habit) Normalize() Habit {
	if !h.DayOfWeek.Valid() {
		h.DayOfWeek = DefaultDayOfWeek
	}
	if !h.Category.Valid() {
		h.Category = DefaultCategory
	}
	h.Description = strings.TrimSpace(h.Description)
	return h
}

// LocalHabit carries the provenance of a habit in the local cache.
// IsLocal is true while the habit has never been created remotely.
type LocalHabit struct {
	Habit   `yaml:",inline"`
	IsLocal bool `json:"isLocal" yaml:"is_local"`
}

// NewHabit holds the fields for creating a habit
type NewHabit struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	DayOfWeek   DayOfWeek `json:"dayOfWeek"`
	Category    Category  `json:"category,omitempty"`
}

// Validate trims the name and applies the default day and category
func (n NewHabit) Validate() (NewHabit, error) {
	n.Name = strings.TrimSpace(n.Name)
	if n.Name == "" {
		return n, ErrEmptyName
	}
	n.Description = strings.TrimSpace(n.Description)
	if n.DayOfWeek == "" {
		n.DayOfWeek = DefaultDayOfWeek
	}
	if !n.DayOfWeek.Valid() {
		return n, fmt.Errorf("%w: %q", ErrInvalidDay, n.DayOfWeek)
	}
	if n.Category == "" {
		n.Category = DefaultCategory
	}
	if !n.Category.Valid() {
		return n, fmt.Errorf("%w: %q", ErrInvalidCategory, n.Category)
	}
	return n, nil
}

// EditHabit holds the fields of an edit. Empty DayOfWeek or Category keep
// the existing value; Description always replaces it.
type EditHabit struct {
	Name        string
	Description string
	DayOfWeek   DayOfWeek
	Category    Category
}

func (e EditHabit) Validate() (EditHabit, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return e, ErrEmptyName
	}
	e.Description = strings.TrimSpace(e.Description)
	if e.DayOfWeek != "" && !e.DayOfWeek.Valid() {
		return e, fmt.Errorf("%w: %q", ErrInvalidDay, e.DayOfWeek)
	}
	if e.Category != "" && !e.Category.Valid() {
		return e, fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	return e, nil
}

// Apply returns h with the edit applied
func (e EditHabit) Apply(h Habit) Habit {
	h.Name = e.Name
	h.Description = e.Description
	if e.DayOfWeek != "" {
		h.DayOfWeek = e.DayOfWeek
	}
	if e.Category != "" {
		h.Category = e.Category
	}
	return h
}

// Patch converts the edit into the partial body sent to the remote service
func (e EditHabit) Patch() HabitPatch {
	// Description is always sent so an empty value clears it remotely
	p := HabitPatch{Name: &e.Name, Description: &e.Description}
	if e.DayOfWeek != "" {
		p.DayOfWeek = &e.DayOfWeek
	}
	if e.Category != "" {
		p.Category = &e.Category
	}
	return p
}

// HabitPatch is a partial update; nil fields are left untouched remotely
type HabitPatch struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	DayOfWeek   *DayOfWeek `json:"dayOfWeek,omitempty"`
	Category    *Category  `json:"category,omitempty"`
}
