package dto

import "github.com/maeumlog/diary-api/internal/models"

// LoginRequest carries the roster credentials of a student.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,len=6,numeric"`
}

// LoginResponse returns the issued session token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
	StudentName string `json:"studentName"`
}

// SubmitEntryRequest is the payload of a diary upsert. Date defaults to the
// server's current day when omitted, matching the original submit flow.
type SubmitEntryRequest struct {
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Emotion   string `json:"emotion" validate:"required"`
	Gratitude string `json:"gratitude"`
	Message   string `json:"message"`
}

// SubmitEntryResponse reports which upsert case occurred.
type SubmitEntryResponse struct {
	Outcome models.SubmitOutcome `json:"outcome"`
	Entry   models.DiaryEntry    `json:"entry"`
}

// EntriesResponse lists a student's diary in physical sheet order.
type EntriesResponse struct {
	Entries []models.DiaryEntry `json:"entries"`
}

// NotesResponse lists newly surfaced teacher notes, ascending by date.
type NotesResponse struct {
	Notes []models.TeacherNote `json:"notes"`
}
