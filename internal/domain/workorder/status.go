package workorder

import "github.com/BruksfildServices01/oto-servis/internal/httperr"

// ===============================
// Work order status
// ===============================

type Status string

const (
	StatusOpen         Status = "open"
	StatusPending      Status = "pending"
	StatusInProgress   Status = "in_progress"
	StatusWaitingParts Status = "waiting_parts"
	StatusCompleted    Status = "completed"
	StatusCancelled    Status = "cancelled"
)

var allStatuses = []Status{
	StatusOpen,
	StatusPending,
	StatusInProgress,
	StatusWaitingParts,
	StatusCompleted,
	StatusCancelled,
}

func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func (s Status) IsValid() bool {
	for _, v := range allStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func InitialStatus() Status {
	return StatusPending
}

// StatusOrDefault trata status vazio como pending.
func StatusOrDefault(raw string) (Status, error) {
	if raw == "" {
		return StatusPending, nil
	}
	s := Status(raw)
	if !s.IsValid() {
		return "", httperr.ErrBusiness("invalid_status")
	}
	return s, nil
}

// ===============================
// Guards
// ===============================

// CanModify bloqueia alterações em ordens concluídas para quem não é admin.
func CanModify(current Status, privileged bool) error {
	if current == StatusCompleted && !privileged {
		return httperr.ErrBusiness(httperr.CodeWorkOrderCompleted)
	}
	return nil
}

func CanDelete(privileged bool) error {
	if !privileged {
		return httperr.ErrBusiness(httperr.CodeForbidden)
	}
	return nil
}

// CompletionPolicy decide quem pode marcar uma ordem como concluída.
type CompletionPolicy struct {
	RequireAdmin bool
}

func (p CompletionPolicy) CanComplete(privileged bool) error {
	if p.RequireAdmin && !privileged {
		return httperr.ErrBusiness(httperr.CodeForbidden)
	}
	return nil
}
