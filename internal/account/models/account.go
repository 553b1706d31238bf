package models

import "time"

// Rank is a staff account's rank within the force.
type Rank string

const (
	RankComisarioGeneral Rank = "Comisario General"
	RankComisario        Rank = "Comisario"
	RankSubcomisario     Rank = "Subcomisario"
	RankOficialPrincipal Rank = "Oficial Principal"
	RankOficial          Rank = "Oficial"
	RankAgente           Rank = "Agente"
)

var Ranks = []Rank{
	RankComisarioGeneral, RankComisario, RankSubcomisario,
	RankOficialPrincipal, RankOficial, RankAgente,
}

// Department is the unit a staff account belongs to.
type Department string

const (
	DepartmentIncorporaciones Department = "Incorporaciones"
	DepartmentInvestigaciones Department = "Investigaciones"
	DepartmentAsuntosInternos Department = "Asuntos Internos"
	DepartmentComunicaciones  Department = "Comunicaciones"
)

var Departments = []Department{
	DepartmentIncorporaciones, DepartmentInvestigaciones,
	DepartmentAsuntosInternos, DepartmentComunicaciones,
}

// Account is a staff login. Passwords are stored as provisioned and compared
// by plain equality; the accounts are game personas, not real identities.
type Account struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Password    string     `json:"-"`
	FullName    string     `json:"fullName,omitempty"`
	Email       string     `json:"email,omitempty"`
	BadgeNumber string     `json:"badgeNumber,omitempty"`
	Rank        Rank       `json:"role"`
	Department  Department `json:"department,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is what a successful login returns to the staff frontend.
type LoginResponse struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Role       Rank       `json:"role"`
	Department Department `json:"department,omitempty"`
	Token      string     `json:"token"`
}
