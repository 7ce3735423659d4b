package state

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	MaxReminders         = 20
	DefaultReminderColor = "#00BF63"
	paidOnLayout         = "02 Jan 2006"
	approachingDays      = 5
)

var (
	ErrReminderLimit    = errors.New("You can add a maximum of 20 reminders. Please delete some to add more.")
	ErrReminderNotFound = errors.New("reminder not found")
)

type Reminder struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Color       string  `json:"color"`
	Amount      float64 `json:"amount"`
}

// PaidReminder is a settled reminder, shaped like an outgoing transaction.
type PaidReminder struct {
	Reminder
	Name       string `json:"name"`
	Category   string `json:"category"`
	IsIncoming bool   `json:"isIncoming"`
	PaidOn     string `json:"paidOn"`
}

// ReminderInput holds the reminder form fields as typed. Year is optional.
type ReminderInput struct {
	Title       string
	Description string
	Day         string
	Month       string
	Year        string
	Color       string
	Amount      string
}

func (in ReminderInput) build(id int64) (Reminder, error) {
	amount := 0.0
	if text := strings.TrimSpace(in.Amount); text != "" {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Reminder{}, ErrInvalidAmount
		}
		amount = v
	}

	color := in.Color
	if color == "" {
		color = DefaultReminderColor
	}

	date := in.Day + " " + in.Month
	if in.Year != "" {
		date += " " + in.Year
	}

	return Reminder{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Date:        date,
		Color:       color,
		Amount:      amount,
	}, nil
}

func (s *Store) Reminders() []Reminder {
	return s.reminders.Get()
}

func (s *Store) PaidHistory() []PaidReminder {
	return s.paidHistory.Get()
}

// AddReminder prepends a reminder. At the limit nothing changes.
func (s *Store) AddReminder(in ReminderInput) (Reminder, error) {
	current := s.reminders.Get()
	if len(current) >= MaxReminders {
		return Reminder{}, ErrReminderLimit
	}

	id := nextLocalID(s.now(), func(id int64) bool { return s.reminderIndex(id) >= 0 })
	r, err := in.build(id)
	if err != nil {
		return Reminder{}, err
	}

	if err := s.reminders.Set(append([]Reminder{r}, current...)); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

func (s *Store) UpdateReminder(id int64, in ReminderInput) (Reminder, error) {
	i := s.reminderIndex(id)
	if i < 0 {
		return Reminder{}, ErrReminderNotFound
	}
	r, err := in.build(id)
	if err != nil {
		return Reminder{}, err
	}

	next := slices.Clone(s.reminders.Get())
	next[i] = r
	if err := s.reminders.Set(next); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

func (s *Store) DeleteReminder(id int64) error {
	i := s.reminderIndex(id)
	if i < 0 {
		return ErrReminderNotFound
	}
	return s.reminders.Set(slices.Delete(slices.Clone(s.reminders.Get()), i, i+1))
}

// MarkPaid moves a reminder to the top of the paid history. Both keys are
// written; if the second write fails the history is restored.
func (s *Store) MarkPaid(id int64) (PaidReminder, error) {
	i := s.reminderIndex(id)
	if i < 0 {
		return PaidReminder{}, ErrReminderNotFound
	}
	active := s.reminders.Get()
	r := active[i]

	entry := PaidReminder{
		Reminder:   r,
		Name:       r.Title,
		Category:   "reminder",
		IsIncoming: false,
		PaidOn:     s.now().Format(paidOnLayout),
	}

	history := s.paidHistory.Get()
	if err := s.paidHistory.Set(append([]PaidReminder{entry}, history...)); err != nil {
		return PaidReminder{}, err
	}
	if err := s.reminders.Set(slices.Delete(slices.Clone(active), i, i+1)); err != nil {
		if rerr := s.paidHistory.Set(history); rerr != nil {
			s.logger.Error("failed to restore paid history", "error", rerr)
		}
		return PaidReminder{}, err
	}
	return entry, nil
}

func (s *Store) reminderIndex(id int64) int {
	return slices.IndexFunc(s.reminders.Get(), func(r Reminder) bool { return r.ID == id })
}

// IsDateApproaching reports whether a "D Mon [Year]" date falls within the
// next five days, today included. A missing year means the current one.
func IsDateApproaching(date string, now time.Time) bool {
	parts := strings.Fields(date)
	if len(parts) < 2 {
		return false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	month, err := time.Parse("Jan", parts[1])
	if err != nil {
		return false
	}
	year := now.Year()
	if len(parts) > 2 {
		if year, err = strconv.Atoi(parts[2]); err != nil {
			return false
		}
	}

	loc := now.Location()
	due := time.Date(year, month.Month(), day, 0, 0, 0, 0, loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	days := due.Sub(today).Hours() / 24
	return days >= 0 && days <= approachingDays
}

func (r Reminder) String() string {
	return fmt.Sprintf("%s due %s (%s)", r.Title, r.Date, FormatAmount(r.Amount))
}
