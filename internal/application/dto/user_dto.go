package dto

import "time"

// RegisterRequest entrada para registro (auth).
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Superadmin bool      `json:"superadmin"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token JWT y sesión resuelta.
type LoginResponse struct {
	Token   string          `json:"token"`
	User    UserResponse    `json:"user"`
	Session SessionResponse `json:"session"`
}

// UserDirectoryItem fila del listado desnormalizado de usuarios (get_all_users).
type UserDirectoryItem struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Superadmin  bool      `json:"superadmin"`
	Role        string    `json:"role"`
	DirectRole  string    `json:"direct_role,omitempty"`
	CompanyID   string    `json:"company_id,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	CompanyRole string    `json:"company_role,omitempty"`
	IsAdmin     bool      `json:"is_company_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserDirectoryResponse listado paginado.
type UserDirectoryResponse struct {
	Items []UserDirectoryItem `json:"items"`
	Page  PageResponse        `json:"page"`
}

// SetRoleRequest asigna el rol directo de un usuario.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// AssignCompanyRequest asocia un usuario a su única empresa.
type AssignCompanyRequest struct {
	CompanyID  string `json:"company_id"`
	Role       string `json:"role"`
	IsAdmin    bool   `json:"is_admin"`
	KPIEnabled bool   `json:"kpi_enabled"`
}
