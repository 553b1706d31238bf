package models

import (
	"regexp"
	"strings"
	"unicode/utf8"

	dErrors "pfaportal/pkg/domain-errors"
)

// CreateApplicationRequest is the untyped submission payload after JSON
// decoding. The multi-step form validates each step as the candidate
// advances; the server re-runs every step on final submission and merges the
// field errors, so independent failures are all reported at once.
type CreateApplicationRequest struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Gender      string `json:"gender"`
	CivilStatus string `json:"civilStatus"`
	Age         int    `json:"age"`
	Nationality string `json:"nationality"`
	Birthplace  string `json:"birthplace"`
	IDType      string `json:"idType"`
	IDNumber    string `json:"idNumber"`

	Email   string `json:"email"`
	Discord string `json:"discord"`
	Roblox  string `json:"roblox"`

	EducationLevel    string `json:"educationLevel"`
	EducationTitle    string `json:"educationTitle"`
	HasCriminalRecord bool   `json:"hasCriminalRecord"`
	RecordCompetence  string `json:"recordCompetence"`
	RecordDescription string `json:"recordDescription"`
	ActiveCauses      string `json:"activeCauses"`

	Motive string `json:"motive"`
	Exam1  string `json:"exam_1"`
	Exam2  string `json:"exam_2"`
	Exam3  string `json:"exam_3"`
	Exam4  string `json:"exam_4"`
	Exam5  string `json:"exam_5"`

	Photo              string `json:"photo"`
	MedicalDeclaration bool   `json:"medicalDeclaration"`
	OathDeclaration    bool   `json:"oathDeclaration"`
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Normalize trims free-text fields in place. Called before validation so the
// stored record equals the normalized input.
func (r *CreateApplicationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Surname = strings.TrimSpace(r.Surname)
	r.Gender = strings.TrimSpace(r.Gender)
	r.CivilStatus = strings.TrimSpace(r.CivilStatus)
	r.Nationality = strings.TrimSpace(r.Nationality)
	r.Birthplace = strings.TrimSpace(r.Birthplace)
	r.IDType = strings.TrimSpace(r.IDType)
	r.IDNumber = strings.TrimSpace(r.IDNumber)
	r.Email = strings.TrimSpace(r.Email)
	r.Discord = strings.TrimSpace(r.Discord)
	r.Roblox = strings.TrimSpace(r.Roblox)
	r.EducationLevel = strings.TrimSpace(r.EducationLevel)
	r.EducationTitle = strings.TrimSpace(r.EducationTitle)
	r.RecordCompetence = strings.TrimSpace(r.RecordCompetence)
	r.RecordDescription = strings.TrimSpace(r.RecordDescription)
	r.ActiveCauses = strings.TrimSpace(r.ActiveCauses)
	r.Motive = strings.TrimSpace(r.Motive)
	r.Photo = strings.TrimSpace(r.Photo)
}

// ValidateStep1 covers personal data and contact fields.
func (r *CreateApplicationRequest) ValidateStep1() []dErrors.FieldError {
	var errs []dErrors.FieldError
	if utf8.RuneCountInString(r.Name) < 2 {
		errs = append(errs, dErrors.FieldError{Field: "name", Reason: "El nombre es requerido"})
	}
	if utf8.RuneCountInString(r.Surname) < 2 {
		errs = append(errs, dErrors.FieldError{Field: "surname", Reason: "El apellido es requerido"})
	}
	if !oneOf(r.Gender, Genders) {
		errs = append(errs, dErrors.FieldError{Field: "gender", Reason: "Género inválido"})
	}
	if !oneOf(r.CivilStatus, CivilStatuses) {
		errs = append(errs, dErrors.FieldError{Field: "civilStatus", Reason: "Estado civil inválido"})
	}
	if r.Age < 18 {
		errs = append(errs, dErrors.FieldError{Field: "age", Reason: "Debe ser mayor de 17 años al 31 de diciembre."})
	} else if r.Age > 65 {
		errs = append(errs, dErrors.FieldError{Field: "age", Reason: "Edad máxima excedida"})
	}
	if r.Nationality == "" {
		errs = append(errs, dErrors.FieldError{Field: "nationality", Reason: "Seleccione nacionalidad"})
	}
	if r.Birthplace == "" {
		errs = append(errs, dErrors.FieldError{Field: "birthplace", Reason: "Seleccione lugar de nacimiento"})
	}
	if r.IDType == "" {
		errs = append(errs, dErrors.FieldError{Field: "idType", Reason: "Tipo de documento requerido"})
	}
	if utf8.RuneCountInString(r.IDNumber) < 5 {
		errs = append(errs, dErrors.FieldError{Field: "idNumber", Reason: "Número de documento inválido"})
	}
	if !emailRe.MatchString(r.Email) {
		errs = append(errs, dErrors.FieldError{Field: "email", Reason: "Email inválido (Debe ser real)"})
	}
	if utf8.RuneCountInString(r.Discord) < 3 {
		errs = append(errs, dErrors.FieldError{Field: "discord", Reason: "Usuario de Discord requerido"})
	}
	if utf8.RuneCountInString(r.Roblox) < 3 {
		errs = append(errs, dErrors.FieldError{Field: "roblox", Reason: "Usuario de Roblox requerido"})
	}
	return errs
}

// ValidateStep2 covers education and the criminal-record declaration. When
// the record flag is set, the three dependent fields become required and are
// reported as one composite error on recordDescription.
func (r *CreateApplicationRequest) ValidateStep2() []dErrors.FieldError {
	var errs []dErrors.FieldError
	if !oneOf(r.EducationLevel, EducationLevels) {
		errs = append(errs, dErrors.FieldError{Field: "educationLevel", Reason: "Nivel educativo inválido"})
	}
	if utf8.RuneCountInString(r.EducationTitle) < 2 {
		errs = append(errs, dErrors.FieldError{Field: "educationTitle", Reason: "El título obtenido es requerido"})
	}
	if r.HasCriminalRecord {
		if !oneOf(r.RecordCompetence, RecordCompetence) ||
			r.RecordDescription == "" ||
			!oneOf(r.ActiveCauses, ActiveCauses) {
			errs = append(errs, dErrors.FieldError{
				Field:  "recordDescription",
				Reason: "Debe completar todos los detalles de antecedentes penales",
			})
		}
	}
	return errs
}

// ValidateStep3 covers the motivation statement and the five exam answers.
func (r *CreateApplicationRequest) ValidateStep3() []dErrors.FieldError {
	var errs []dErrors.FieldError
	if utf8.RuneCountInString(r.Motive) < 50 {
		errs = append(errs, dErrors.FieldError{Field: "motive", Reason: "Desarrolle su respuesta (mínimo 50 caracteres)."})
	}
	exams := []struct {
		field string
		value string
	}{
		{"exam_1", r.Exam1}, {"exam_2", r.Exam2}, {"exam_3", r.Exam3},
		{"exam_4", r.Exam4}, {"exam_5", r.Exam5},
	}
	for _, e := range exams {
		if strings.TrimSpace(e.value) == "" {
			errs = append(errs, dErrors.FieldError{Field: e.field, Reason: "Respuesta requerida"})
		}
	}
	return errs
}

// ValidateStep4 covers the photo and the sworn declarations.
func (r *CreateApplicationRequest) ValidateStep4() []dErrors.FieldError {
	var errs []dErrors.FieldError
	if r.Photo == "" {
		errs = append(errs, dErrors.FieldError{Field: "photo", Reason: "Debe subir una foto 4x4."})
	}
	if !r.MedicalDeclaration {
		errs = append(errs, dErrors.FieldError{Field: "medicalDeclaration", Reason: "Debe declarar su estado de salud"})
	}
	if !r.OathDeclaration {
		errs = append(errs, dErrors.FieldError{Field: "oathDeclaration", Reason: "Debe prestar juramento para continuar"})
	}
	return errs
}

// Validate normalizes the payload and runs every step validator, merging the
// accumulated field errors into a single validation error. Pure: no store
// access, no side effects beyond trimming.
func (r *CreateApplicationRequest) Validate() error {
	r.Normalize()

	var errs []dErrors.FieldError
	errs = append(errs, r.ValidateStep1()...)
	errs = append(errs, r.ValidateStep2()...)
	errs = append(errs, r.ValidateStep3()...)
	errs = append(errs, r.ValidateStep4()...)
	if len(errs) > 0 {
		return dErrors.NewValidation("invalid incorporation request", errs)
	}
	return nil
}

// ToApplication builds the record-creation payload. Server-assigned fields
// (id, tracking code, status, timestamps) stay zero; the store fills them.
func (r *CreateApplicationRequest) ToApplication() *Application {
	app := &Application{
		Name:               r.Name,
		Surname:            r.Surname,
		Gender:             r.Gender,
		CivilStatus:        r.CivilStatus,
		Age:                r.Age,
		Nationality:        r.Nationality,
		Birthplace:         r.Birthplace,
		IDType:             r.IDType,
		IDNumber:           r.IDNumber,
		Email:              r.Email,
		Discord:            r.Discord,
		Roblox:             r.Roblox,
		EducationLevel:     r.EducationLevel,
		EducationTitle:     r.EducationTitle,
		HasCriminalRecord:  r.HasCriminalRecord,
		Motive:             r.Motive,
		Exam1:              r.Exam1,
		Exam2:              r.Exam2,
		Exam3:              r.Exam3,
		Exam4:              r.Exam4,
		Exam5:              r.Exam5,
		Photo:              r.Photo,
		MedicalDeclaration: r.MedicalDeclaration,
		OathDeclaration:    r.OathDeclaration,
	}
	if r.HasCriminalRecord {
		app.RecordCompetence = r.RecordCompetence
		app.RecordDescription = r.RecordDescription
		app.ActiveCauses = r.ActiveCauses
	}
	return app
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}
