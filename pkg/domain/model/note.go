package model

import (
	"time"

	"github.com/google/uuid"
)

// NoteID is a UUID-based identifier for Note
type NoteID string

// NewNoteID generates a new UUID v4 NoteID
func NewNoteID() NoteID {
	return NoteID(uuid.New().String())
}

// Note is one structured observation of a care session. Notes are
// immutable once stored; retention is managed outside this service.
type Note struct {
	ID              NoteID
	MemberID        string
	SessionAt       time.Time
	ActivityType    string
	Mood            string
	Participation   string
	PromptsRequired string
	Summary         string `masq:"secret"`
	FollowUps       []string
	Medications     []Medication
	CreatedAt       time.Time
}

// Medication is one medication observation attached to a note
type Medication struct {
	Name   string
	Dose   string
	Route  string
	Time   string
	Status string // given, offered, refused, unknown
}
