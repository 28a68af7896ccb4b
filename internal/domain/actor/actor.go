package actor

import "github.com/BruksfildServices01/oto-servis/internal/models"

// Actor é quem está chamando, montado a partir do token.
type Actor struct {
	UserID    uint
	Role      string
	IPAddress string
	UserAgent string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func (a Actor) UserIDPtr() *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
