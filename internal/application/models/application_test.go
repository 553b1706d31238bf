package models

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type FilterSuite struct {
	suite.Suite
	apps []*Application
}

func TestFilterSuite(t *testing.T) {
	suite.Run(t, new(FilterSuite))
}

func (s *FilterSuite) SetupTest() {
	s.apps = []*Application{
		{TrackingCode: "INC-100001", Name: "Juan", Surname: "García", Status: StatusEnRevision},
		{TrackingCode: "INC-100002", Name: "María", Surname: "López", Status: StatusAnalizando},
		{TrackingCode: "INC-100003", Name: "Pedro", Surname: "Garcia", Status: StatusAdmitido},
	}
}

func (s *FilterSuite) TestEmptyTermsReturnEverythingInOrder() {
	for _, statusTerm := range []string{"", "all"} {
		got := Filter(s.apps, "", statusTerm)
		s.Require().Len(got, 3)
		s.Equal("INC-100001", got[0].TrackingCode)
		s.Equal("INC-100003", got[2].TrackingCode)
	}
}

func (s *FilterSuite) TestSearchIsCaseInsensitiveSubstring() {
	got := Filter(s.apps, "garc", "all")
	s.Require().Len(got, 2)
	s.Equal("Juan", got[0].Name)
	s.Equal("Pedro", got[1].Name)
}

func (s *FilterSuite) TestSearchMatchesTrackingCode() {
	got := Filter(s.apps, "inc-100002", "all")
	s.Require().Len(got, 1)
	s.Equal("María", got[0].Name)
}

func (s *FilterSuite) TestStatusIsExactMatch() {
	got := Filter(s.apps, "", string(StatusAnalizando))
	s.Require().Len(got, 1)
	s.Equal("INC-100002", got[0].TrackingCode)
}

func (s *FilterSuite) TestBothConditionsMustHold() {
	s.Empty(Filter(s.apps, "garcia", string(StatusAnalizando)))
	got := Filter(s.apps, "garcia", string(StatusAdmitido))
	s.Require().Len(got, 1)
	s.Equal("Pedro", got[0].Name)
}

func (s *FilterSuite) TestStatusHelpers() {
	s.True(StatusAdmitido.IsTerminal())
	s.True(StatusCancelado.IsTerminal())
	s.False(StatusEnRevision.IsTerminal())
	s.True(StatusAprobado.IsKnown())
	s.False(Status("Inventado").IsKnown())
}
