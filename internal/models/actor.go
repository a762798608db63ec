package models

// Role decides which scope policy applies to an actor.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleAttendant    Role = "attendant"
)

// Actor is the resolved identity behind a session token. It is passed
// explicitly to every operation that needs it.
type Actor struct {
	UserID    string     `json:"user_id"`
	Role      Role       `json:"role"`
	Company   *Company   `json:"company,omitempty"`
	Attendant *Attendant `json:"attendant,omitempty"`
}

func (a Actor) CompanyID() string {
	if a.Company == nil {
		return ""
	}
	return a.Company.ID
}

func (a Actor) APIKey() string {
	if a.Company == nil {
		return ""
	}
	return a.Company.APIKey
}

// DisplayName is the human name used in outbound payloads.
func (a Actor) DisplayName() string {
	if a.Attendant != nil && a.Attendant.Name != "" {
		return a.Attendant.Name
	}
	if a.Company != nil {
		return a.Company.Name
	}
	return a.UserID
}

func (a Actor) Email() string {
	if a.Attendant != nil {
		return a.Attendant.Email
	}
	if a.Company != nil {
		return a.Company.Email
	}
	return ""
}
