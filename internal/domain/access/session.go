package access

// Session estado de autenticación explícito de una petición.
// Se construye una vez a partir de los claims y se pasa hacia abajo; nunca es global.
type Session struct {
	UserID        string
	Email         string
	CompanyID     string
	Role          Role
	Superadmin    bool
	Authenticated bool
	// Pending indica que el rol todavía se está resolviendo (p. ej. reparación de empresa en curso).
	Pending bool
}

// Anonymous sesión sin usuario.
func Anonymous() Session { return Session{} }

// EffectiveRole aplica el rol por defecto cuando no se resolvió ninguno.
func (s Session) EffectiveRole(def Role) Role {
	if s.Role.Valid() {
		return s.Role
	}
	return def
}

// IsAdmin, IsManager e IsCustomer se derivan del único rol resuelto y no pueden contradecirse.
func (s Session) IsAdmin() bool    { return s.Authenticated && (s.Superadmin || s.Role == RoleAdmin) }
func (s Session) IsManager() bool  { return s.Authenticated && !s.Superadmin && s.Role == RoleManager }
func (s Session) IsCustomer() bool { return s.Authenticated && !s.Superadmin && s.Role == RoleCustomer }
