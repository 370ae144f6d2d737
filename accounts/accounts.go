package accounts

// SessionHandle is one login instance held against an account. It is only ever stored
// embedded in Account.Sessions.
type SessionHandle struct {
	SessionID string `json:"session_id" bson:"session_id"`
}

// Account is the durable identity record for a provider user.
type Account struct {
	ProviderID int64           `json:"provider_id" bson:"provider_id"` // External identity key, unique and immutable
	InternalID string          `json:"uuid" bson:"uuid"`               // Locally generated id exposed to other services
	Name       *string         `json:"name,omitempty" bson:"name"`     // Provider display name, nil when unknown
	Email      *string         `json:"email,omitempty" bson:"email"`   // Provider email, nil when unknown
	Elevated   bool            `json:"elevated" bson:"elevated"`       // Changed only by an administrator out of band
	Sessions   []SessionHandle `json:"-" bson:"sessions"`              // Currently valid login sessions, one per device
}

// HasSession reports whether sessionID is one of the account's valid sessions.
func (a *Account) HasSession(sessionID string) bool {
	for _, s := range a.Sessions {
		if s.SessionID == sessionID {
			return true
		}
	}
	return false
}

// Owns reports whether the account is the creator recorded on a piece of content.
func (a *Account) Owns(creator string) bool {
	return a.InternalID != "" && a.InternalID == creator
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.Name != nil {
		name := *a.Name
		c.Name = &name
	}
	if a.Email != nil {
		email := *a.Email
		c.Email = &email
	}
	c.Sessions = append([]SessionHandle(nil), a.Sessions...)
	return &c
}
