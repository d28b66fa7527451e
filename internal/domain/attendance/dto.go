package attendance

// ========================================
// ATTENDANCE DTOs
// ========================================

type RecordResponse struct {
	ID                   string           `json:"id"`
	UserID               string           `json:"user_id"`
	Date                 string           `json:"date"`
	ShiftID              *string          `json:"shift_id,omitempty"`
	Sessions             []SessionSummary `json:"sessions"`
	WorkMinutes          int              `json:"work_minutes"`
	BreakMinutes         int              `json:"break_minutes"`
	IsLateCheckIn        bool             `json:"is_late_check_in"`
	IsEarlyCheckOut      bool             `json:"is_early_check_out"`
	IsOvertime           bool             `json:"is_overtime"`
	OvertimeMinutes      int              `json:"overtime_minutes"`
	AttendancePercentage int              `json:"attendance_percentage"`
	Status               string           `json:"status"`
	Note                 *string          `json:"note,omitempty"`
}

// ToResponse converts a DailyRecord entity to RecordResponse
func ToResponse(rec DailyRecord) RecordResponse {
	sessions := rec.Sessions
	if sessions == nil {
		sessions = []SessionSummary{}
	}
	return RecordResponse{
		ID:                   rec.ID,
		UserID:               rec.UserID,
		Date:                 rec.Date.Format("2006-01-02"),
		ShiftID:              rec.ShiftID,
		Sessions:             sessions,
		WorkMinutes:          rec.WorkMinutes,
		BreakMinutes:         rec.BreakMinutes,
		IsLateCheckIn:        rec.IsLateCheckIn,
		IsEarlyCheckOut:      rec.IsEarlyCheckOut,
		IsOvertime:           rec.IsOvertime,
		OvertimeMinutes:      rec.OvertimeMinutes,
		AttendancePercentage: rec.AttendancePercentage,
		Status:               rec.Status,
		Note:                 rec.Note,
	}
}
