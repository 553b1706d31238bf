package models

import (
	"strings"
	"time"

	dErrors "pfaportal/pkg/domain-errors"
)

// Status is the workflow state of a denuncia. The workflow is non-strict:
// staff supply the status string and the record takes it.
type Status string

const (
	StatusRegistrada      Status = "Registrada"
	StatusEnInvestigacion Status = "En Investigación"
	StatusResuelta        Status = "Resuelta"
)

// Priority grades a report for triage.
type Priority string

const (
	PriorityBaja    Priority = "Baja"
	PriorityNormal  Priority = "Normal"
	PriorityAlta    Priority = "Alta"
	PriorityCritica Priority = "Crítica"
)

var (
	CrimeTypes = []string{
		"Robo", "Asalto", "Fraude", "Corrupción", "Tráfico",
		"Secuestro", "Homicidio", "Violencia Doméstica", "Otro",
	}
	Priorities = []Priority{PriorityBaja, PriorityNormal, PriorityAlta, PriorityCritica}
)

// CrimeReport is one public denuncia.
type CrimeReport struct {
	ID         string `json:"id"`
	ReportCode string `json:"reportCode"`
	Status     Status `json:"status"`

	CrimeType       string   `json:"crimeType"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	DateOfCrime     string   `json:"dateOfCrime,omitempty"`
	Reporter        string   `json:"reporter,omitempty"`
	ReporterContact string   `json:"reporterContact,omitempty"`
	EvidenceNote    string   `json:"evidenceNote,omitempty"`
	AssignedOfficer string   `json:"assignedOfficer,omitempty"`
	Priority        Priority `json:"priority"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateCrimeReportRequest is the public submission payload.
type CreateCrimeReportRequest struct {
	CrimeType       string `json:"crimeType"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	DateOfCrime     string `json:"dateOfCrime"`
	Reporter        string `json:"reporter"`
	ReporterContact string `json:"reporterContact"`
	EvidenceNote    string `json:"evidenceNote"`
	Priority        string `json:"priority"`
}

// Validate accumulates field errors for the required fields and enumerated
// sets. Priority defaults to Normal when absent.
func (r *CreateCrimeReportRequest) Validate() error {
	r.normalize()

	var errs []dErrors.FieldError
	if !validCrimeType(r.CrimeType) {
		errs = append(errs, dErrors.FieldError{Field: "crimeType", Reason: "Tipo de delito inválido"})
	}
	if r.Description == "" {
		errs = append(errs, dErrors.FieldError{Field: "description", Reason: "La descripción es requerida"})
	}
	if r.Location == "" {
		errs = append(errs, dErrors.FieldError{Field: "location", Reason: "La ubicación es requerida"})
	}
	if r.Priority != "" && !validPriority(Priority(r.Priority)) {
		errs = append(errs, dErrors.FieldError{Field: "priority", Reason: "Prioridad inválida"})
	}
	if len(errs) > 0 {
		return dErrors.NewValidation("invalid crime report", errs)
	}
	return nil
}

// ToReport builds the record-creation payload. Server-assigned fields stay
// zero for the store to fill.
func (r *CreateCrimeReportRequest) ToReport() *CrimeReport {
	priority := Priority(r.Priority)
	if priority == "" {
		priority = PriorityNormal
	}
	return &CrimeReport{
		CrimeType:       r.CrimeType,
		Description:     r.Description,
		Location:        r.Location,
		DateOfCrime:     r.DateOfCrime,
		Reporter:        r.Reporter,
		ReporterContact: r.ReporterContact,
		EvidenceNote:    r.EvidenceNote,
		Priority:        priority,
	}
}

func (r *CreateCrimeReportRequest) normalize() {
	r.CrimeType = strings.TrimSpace(r.CrimeType)
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)
	r.DateOfCrime = strings.TrimSpace(r.DateOfCrime)
	r.Reporter = strings.TrimSpace(r.Reporter)
	r.ReporterContact = strings.TrimSpace(r.ReporterContact)
	r.EvidenceNote = strings.TrimSpace(r.EvidenceNote)
	r.Priority = strings.TrimSpace(r.Priority)
}

func validCrimeType(v string) bool {
	for _, t := range CrimeTypes {
		if v == t {
			return true
		}
	}
	return false
}

func validPriority(p Priority) bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}
