package core

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// DateLayout is the wire and storage format of a Date.
const DateLayout = "2006-01-02"

const (
	maxCategoryLen    = 100
	maxDescriptionLen = 200
)

type (
	TransactionType string

	// Date is a calendar date at UTC midnight. The zero value means "absent".
	Date struct {
		time.Time
	}

	User struct {
		ID           int64     `json:"id"`
		Email        string    `json:"email"`
		Fullname     string    `json:"fullname"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		OwnerID     int64           `json:"userId"`
		Amount      Money           `json:"amount"`
		Date        Date            `json:"date"`
		Category    string          `json:"category"`
		Type        TransactionType `json:"type"`
		Description string          `json:"description"`
	}

	// TransactionDraft is caller input for a new transaction. A nil Amount
	// and a zero Date mean the field was not supplied.
	TransactionDraft struct {
		Amount      *Money
		Date        Date
		Category    string
		Type        string
		Description string
	}
)

// ParseTransactionType accepts INCOME or EXPENSE in any letter case.
func ParseTransactionType(s string) (TransactionType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyType
	}
	switch t := TransactionType(strings.ToUpper(s)); t {
	case Income, Expense:
		return t, nil
	default:
		return "", ErrInvalidType
	}
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// IsEmpty returns true if the date was not supplied.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NormalizeEmail is the canonical form used for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks presence and syntax of an already normalized email.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// Validate checks every field of the draft except the date, which the
// service defaults when absent. The parsed type is returned.
func (d TransactionDraft) Validate() (TransactionType, error) {
	if d.Amount == nil {
		return "", ErrMissingAmount
	}
	if err := d.Amount.Validate(); err != nil {
		return "", err
	}
	category := strings.TrimSpace(d.Category)
	if category == "" {
		return "", ErrEmptyCategory
	}
	if len(category) > maxCategoryLen {
		return "", ErrCategoryTooLong
	}
	if len(d.Description) > maxDescriptionLen {
		return "", ErrDescriptionTooLong
	}
	return ParseTransactionType(d.Type)
}
