package models

import "time"

// User is an account row. PasswordHash is the HMAC-SHA512 of the password
// keyed with PasswordSalt; the salt is generated once at registration and
// never changes afterwards.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	PasswordSalt []byte
	KnownAs      string
	DateOfBirth  time.Time
	Gender       string
	Introduction string
	LookingFor   string
	Interests    string
	City         string
	Country      string
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// Age returns the user's age in full years, or 0 when the date of birth
// is not set.
func (u *User) Age() int {
	if u.DateOfBirth.IsZero() {
		return 0
	}
	now := time.Now()
	age := now.Year() - u.DateOfBirth.Year()
	if now.YearDay() < u.DateOfBirth.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
