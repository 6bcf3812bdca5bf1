package domain

import "github.com/google/uuid"

// Actor is the authenticated caller of a core operation. It is passed
// explicitly into every service call instead of being read from ambient
// session state, so authorization decisions stay deterministic under test.
type Actor struct {
	ID   uuid.UUID
	Role UserRole
}

// Student is a roster record as returned by the student service.
type Student struct {
	ID     uuid.UUID
	Code   string
	Name   string
	Major  string
	Cohort string
	Active bool
}
