package domain

// allowedTransitions is the strict table applied to the officer workflow.
// PENDING is the only initial state. REJECTED is reachable solely through
// administrative override, which bypasses this table (a deliberately looser
// authority level, see AdminService).
var allowedTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusPending:    {ReportStatusInProgress},
	ReportStatusInProgress: {ReportStatusInProgress, ReportStatusResolved},
	ReportStatusResolved:   {},
	ReportStatusRejected:   {},
}

// CanTransition reports whether the officer path may move a report from
// current to next. IN_PROGRESS -> IN_PROGRESS is legal: a rejected resolution
// claim keeps the report open while still recording side effects.
func CanTransition(current, next ReportStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the four lifecycle states.
func ValidStatus(s ReportStatus) bool {
	switch s {
	case ReportStatusPending, ReportStatusInProgress, ReportStatusResolved, ReportStatusRejected:
		return true
	}
	return false
}
