// Package scope decides which messages and contacts an actor may see.
//
// Attendants are restricted to records whose department and sector both equal
// their own; any missing value on either side hides the record. Company admins
// and super-admins see every record of the tenant.
package scope

import "github.com/nexla-ia/plataforma-conversa-sub000/internal/models"

type Scope struct {
	restricted   bool
	departmentID *string
	sectorID     *string
}

// Unrestricted is the company-wide policy.
func Unrestricted() Scope {
	return Scope{}
}

// Attendant is the strict policy for an attendant's department and sector.
func Attendant(departmentID, sectorID *string) Scope {
	return Scope{restricted: true, departmentID: departmentID, sectorID: sectorID}
}

// ForActor picks the policy matching the actor's role. Unknown roles get the
// strict policy with no assignment, which hides everything.
func ForActor(actor models.Actor) Scope {
	switch actor.Role {
	case models.RoleCompanyAdmin, models.RoleSuperAdmin:
		return Unrestricted()
	case models.RoleAttendant:
		if actor.Attendant == nil {
			return Attendant(nil, nil)
		}
		return Attendant(actor.Attendant.DepartmentID, actor.Attendant.SectorID)
	default:
		return Attendant(nil, nil)
	}
}

func (s Scope) Restricted() bool {
	return s.restricted
}

// DeniesAll reports an attendant without a complete department+sector assignment.
func (s Scope) DeniesAll() bool {
	return s.restricted && (s.departmentID == nil || s.sectorID == nil)
}

// Assignment returns the attendant's department and sector; both nil when unrestricted.
func (s Scope) Assignment() (departmentID, sectorID *string) {
	return s.departmentID, s.sectorID
}

// Visible applies the policy to a record's department and sector.
func (s Scope) Visible(departmentID, sectorID *string) bool {
	if !s.restricted {
		return true
	}
	if s.DeniesAll() || departmentID == nil || sectorID == nil {
		return false
	}
	return *departmentID == *s.departmentID && *sectorID == *s.sectorID
}

func (s Scope) FilterMessages(messages []models.Message) []models.Message {
	if !s.restricted {
		return messages
	}
	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if s.Visible(m.DepartmentID, m.SectorID) {
			out = append(out, m)
		}
	}
	return out
}

func (s Scope) FilterContacts(contacts []models.Contact) []models.Contact {
	if !s.restricted {
		return contacts
	}
	out := make([]models.Contact, 0, len(contacts))
	for _, c := range contacts {
		if s.Visible(c.DepartmentID, c.SectorID) {
			out = append(out, c)
		}
	}
	return out
}
