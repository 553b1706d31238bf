package models

import (
	"strings"
	"time"
)

// Status is the workflow state of an incorporation request.
//
// Current workflow: En Revisión -> Analizando -> {Admitido, Desestimado},
// with Cancelado reachable at any point before a terminal state. Admitido,
// Desestimado and Cancelado are terminal in normal operation, but the engine
// does not lock records after a terminal state: staff supply the status and
// the record takes it. Earlier deployments used Pendiente/Aprobado/Rechazado;
// those literals still exist in stored rows and are kept recognizable.
type Status string

const (
	StatusEnRevision  Status = "En Revisión"
	StatusAnalizando  Status = "Analizando"
	StatusAdmitido    Status = "Admitido"
	StatusDesestimado Status = "Desestimado"
	StatusCancelado   Status = "Cancelado"

	// Legacy two-generation literals.
	StatusPendiente Status = "Pendiente"
	StatusAprobado  Status = "Aprobado"
	StatusRechazado Status = "Rechazado"
)

// KnownStatuses is the superset of literals that may appear in stored data.
var KnownStatuses = []Status{
	StatusEnRevision, StatusAnalizando, StatusAdmitido, StatusDesestimado,
	StatusCancelado, StatusPendiente, StatusAprobado, StatusRechazado,
}

// IsKnown reports whether s is one of the recorded workflow literals.
func (s Status) IsKnown() bool {
	for _, k := range KnownStatuses {
		if s == k {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is expected from s.
// Legacy Aprobado/Rechazado count as terminal equivalents of
// Admitido/Desestimado.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusAdmitido, StatusDesestimado, StatusCancelado, StatusAprobado, StatusRechazado:
		return true
	}
	return false
}

// Fixed value sets for enumerated submission fields.
var (
	Genders          = []string{"Masculino", "Femenino", "No Binario"}
	CivilStatuses    = []string{"Soltero", "Casado", "Divorciado", "Separado", "Viudo", "Juntado"}
	EducationLevels  = []string{"Secundario", "Terciario", "Universitario", "Posgrado/Maestria"}
	RecordCompetence = []string{"Provincial", "Federal", "Ambos"}
	ActiveCauses     = []string{"Si", "No", "Desconoce"}
)

// Application is one candidate's incorporation request. Field names on the
// wire match the form the portal has always produced.
type Application struct {
	ID           string `json:"id"`
	TrackingCode string `json:"trackingCode"`
	Status       Status `json:"status"`

	// Personal data (IC)
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Gender      string `json:"gender"`
	CivilStatus string `json:"civilStatus"`
	Age         int    `json:"age"`
	Nationality string `json:"nationality"`
	Birthplace  string `json:"birthplace"`
	IDType      string `json:"idType"`
	IDNumber    string `json:"idNumber"`

	// Contact (OOC)
	Email   string `json:"email"`
	Discord string `json:"discord"`
	Roblox  string `json:"roblox"`

	// Education & background
	EducationLevel    string `json:"educationLevel"`
	EducationTitle    string `json:"educationTitle"`
	HasCriminalRecord bool   `json:"hasCriminalRecord"`
	RecordCompetence  string `json:"recordCompetence,omitempty"`
	RecordDescription string `json:"recordDescription,omitempty"`
	ActiveCauses      string `json:"activeCauses,omitempty"`

	// Exam responses
	Motive string `json:"motive"`
	Exam1  string `json:"exam_1"`
	Exam2  string `json:"exam_2"`
	Exam3  string `json:"exam_3"`
	Exam4  string `json:"exam_4"`
	Exam5  string `json:"exam_5"`

	// Photo & declarations
	Photo              string `json:"photo"`
	MedicalDeclaration bool   `json:"medicalDeclaration"`
	OathDeclaration    bool   `json:"oathDeclaration"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Matches is the read-side filter predicate the staff dashboard uses. Both
// conditions must hold: a case-insensitive substring match over name, surname
// and tracking code when searchTerm is non-empty, and exact status equality
// unless statusTerm is the "all" sentinel.
func (a *Application) Matches(searchTerm, statusTerm string) bool {
	if searchTerm != "" {
		needle := strings.ToLower(searchTerm)
		if !strings.Contains(strings.ToLower(a.Name), needle) &&
			!strings.Contains(strings.ToLower(a.Surname), needle) &&
			!strings.Contains(strings.ToLower(a.TrackingCode), needle) {
			return false
		}
	}
	if statusTerm != "all" && statusTerm != "" && string(a.Status) != statusTerm {
		return false
	}
	return true
}

// Filter applies Matches over a fetched list, preserving order.
func Filter(apps []*Application, searchTerm, statusTerm string) []*Application {
	out := make([]*Application, 0, len(apps))
	for _, a := range apps {
		if a.Matches(searchTerm, statusTerm) {
			out = append(out, a)
		}
	}
	return out
}
