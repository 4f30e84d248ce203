package domain

import "time"

// StaffMember is an actor who logs work time.
type StaffMember struct {
	ID        string
	Email     string
	Name      string
	Role      string
	Building  string
	Active    bool
	CreatedAt time.Time
}

// Student is a subject an entry may reference.
type Student struct {
	ID        string
	Name      string
	Building  string
	Active    bool
	CreatedAt time.Time
}
