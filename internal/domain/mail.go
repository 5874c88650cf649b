package domain

const (
	MailShiftAssigned  = "shift_assigned"
	MailShiftConfirmed = "shift_confirmed"
	MailShiftCancelled = "shift_cancelled"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ShiftMailData struct {
	FullName  string `json:"fullName"`
	ShiftDate string `json:"shiftDate"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Notes     string `json:"notes"`
}
