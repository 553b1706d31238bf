package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "pfaportal/pkg/domain-errors"
)

// CreateApplicationRequestSuite tests submission validation and
// normalization.
type CreateApplicationRequestSuite struct {
	suite.Suite
}

func TestCreateApplicationRequestSuite(t *testing.T) {
	suite.Run(t, new(CreateApplicationRequestSuite))
}

func (s *CreateApplicationRequestSuite) validRequest() *CreateApplicationRequest {
	return &CreateApplicationRequest{
		Name:               "Juan",
		Surname:            "Pérez",
		Gender:             "Masculino",
		CivilStatus:        "Soltero",
		Age:                25,
		Nationality:        "Argentina",
		Birthplace:         "Buenos Aires",
		IDType:             "DNI",
		IDNumber:           "34123456",
		Email:              "juan.perez@example.com",
		Discord:            "juanp#1234",
		Roblox:             "juanp_rbx",
		EducationLevel:     "Secundario",
		EducationTitle:     "Bachiller",
		Motive:             strings.Repeat("Quiero servir a la comunidad. ", 3),
		Exam1:              "a",
		Exam2:              "b",
		Exam3:              "c",
		Exam4:              "d",
		Exam5:              "e",
		Photo:              "data:image/png;base64,xxxx",
		MedicalDeclaration: true,
		OathDeclaration:    true,
	}
}

func fieldReasons(err error) map[string]string {
	out := make(map[string]string)
	for _, fe := range dErrors.FieldsOf(err) {
		out[fe.Field] = fe.Reason
	}
	return out
}

func (s *CreateApplicationRequestSuite) TestValidRequestPasses() {
	s.NoError(s.validRequest().Validate())
}

func (s *CreateApplicationRequestSuite) TestStep1() {
	s.Run("underage rejected with the cutoff message", func() {
		req := s.validRequest()
		req.Age = 17
		err := req.Validate()
		s.Require().Error(err)
		s.Equal("Debe ser mayor de 17 años al 31 de diciembre.", fieldReasons(err)["age"])
	})

	s.Run("over maximum age rejected", func() {
		req := s.validRequest()
		req.Age = 66
		err := req.Validate()
		s.Require().Error(err)
		s.Equal("Edad máxima excedida", fieldReasons(err)["age"])
	})

	s.Run("boundary ages accepted", func() {
		for _, age := range []int{18, 65} {
			req := s.validRequest()
			req.Age = age
			s.NoError(req.Validate())
		}
	})

	s.Run("malformed email rejected", func() {
		req := s.validRequest()
		req.Email = "not-an-email"
		err := req.Validate()
		s.Require().Error(err)
		s.Contains(fieldReasons(err), "email")
	})

	s.Run("unknown gender rejected", func() {
		req := s.validRequest()
		req.Gender = "Otro"
		err := req.Validate()
		s.Require().Error(err)
		s.Equal("Género inválido", fieldReasons(err)["gender"])
	})
}

func (s *CreateApplicationRequestSuite) TestStep2CriminalRecord() {
	s.Run("flag off ignores record detail fields", func() {
		req := s.validRequest()
		req.HasCriminalRecord = false
		req.RecordCompetence = ""
		req.RecordDescription = ""
		req.ActiveCauses = ""
		s.NoError(req.Validate())
	})

	s.Run("flag on with missing details yields one composite error", func() {
		req := s.validRequest()
		req.HasCriminalRecord = true
		req.RecordCompetence = "Provincial"
		req.RecordDescription = ""
		req.ActiveCauses = "No"
		err := req.Validate()
		s.Require().Error(err)
		s.Equal("Debe completar todos los detalles de antecedentes penales", fieldReasons(err)["recordDescription"])
		s.Len(dErrors.FieldsOf(err), 1)
	})

	s.Run("flag on with complete details passes", func() {
		req := s.validRequest()
		req.HasCriminalRecord = true
		req.RecordCompetence = "Federal"
		req.RecordDescription = "Causa menor resuelta en 2019"
		req.ActiveCauses = "No"
		s.NoError(req.Validate())
	})
}

func (s *CreateApplicationRequestSuite) TestStep3() {
	s.Run("short motive rejected", func() {
		req := s.validRequest()
		req.Motive = "muy corto"
		err := req.Validate()
		s.Require().Error(err)
		s.Contains(fieldReasons(err), "motive")
	})

	s.Run("each blank exam reported separately", func() {
		req := s.validRequest()
		req.Exam2 = ""
		req.Exam5 = "   "
		err := req.Validate()
		s.Require().Error(err)
		reasons := fieldReasons(err)
		s.Contains(reasons, "exam_2")
		s.Contains(reasons, "exam_5")
		s.NotContains(reasons, "exam_1")
	})
}

func (s *CreateApplicationRequestSuite) TestStep4() {
	req := s.validRequest()
	req.Photo = ""
	req.MedicalDeclaration = false
	req.OathDeclaration = false
	err := req.Validate()
	s.Require().Error(err)
	reasons := fieldReasons(err)
	s.Contains(reasons, "photo")
	s.Contains(reasons, "medicalDeclaration")
	s.Contains(reasons, "oathDeclaration")
}

func (s *CreateApplicationRequestSuite) TestIndependentFailuresAccumulate() {
	req := s.validRequest()
	req.Name = "J"
	req.Email = "bad"
	req.Exam3 = ""
	req.Photo = ""
	err := req.Validate()
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeValidation))
	s.Len(dErrors.FieldsOf(err), 4)
}

func (s *CreateApplicationRequestSuite) TestMinimumLengthsCountCharacters() {
	s.Run("one accented character is still a too-short name", func() {
		req := s.validRequest()
		req.Name = "Á"
		err := req.Validate()
		s.Require().Error(err)
		s.Equal("El nombre es requerido", fieldReasons(err)["name"])
	})

	s.Run("accented motive below fifty characters rejected", func() {
		req := s.validRequest()
		req.Motive = strings.Repeat("á", 25)
		err := req.Validate()
		s.Require().Error(err)
		s.Contains(fieldReasons(err), "motive")
	})

	s.Run("fifty accented characters accepted", func() {
		req := s.validRequest()
		req.Motive = strings.Repeat("á", 50)
		s.NoError(req.Validate())
	})
}

func (s *CreateApplicationRequestSuite) TestNormalizeTrims() {
	req := s.validRequest()
	req.Name = "  Juan  "
	req.Email = " juan.perez@example.com "
	s.NoError(req.Validate())
	s.Equal("Juan", req.Name)
	s.Equal("juan.perez@example.com", req.Email)
}

func (s *CreateApplicationRequestSuite) TestToApplicationDropsRecordDetailWhenFlagOff() {
	req := s.validRequest()
	req.HasCriminalRecord = false
	req.RecordCompetence = "Provincial"
	req.RecordDescription = "texto"
	req.ActiveCauses = "No"
	app := req.ToApplication()
	s.Empty(app.RecordCompetence)
	s.Empty(app.RecordDescription)
	s.Empty(app.ActiveCauses)
}
