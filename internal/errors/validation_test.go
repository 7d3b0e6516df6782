package errors_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-workshop/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationError() {
	ve := errors.NewValidationError()
	ve.AddFieldError("name", "is required")
	ve.AddFieldErrorf("trial_count", "must be at most %d", 100000)

	s.Assert().True(ve.HasErrors())
	s.Assert().Contains(ve.Error(), "name: is required")
	s.Assert().Contains(ve.Error(), "trial_count: must be at most 100000")

	err := ve.ToError()
	s.Assert().Equal(errors.CodeInvalidArgument, err.Code)
	s.Assert().NotNil(err.Meta["validation_errors"])
}

func (s *ValidationTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	vb.Field("name", "is required").
		Fieldf("level", "must be between %d and %d", 1, 999).
		RequiredField("job_id").
		InvalidField("race_id", "not a configured race")

	err := vb.Build()
	s.Require().NotNil(err)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *ValidationTestSuite) TestValidationBuilderNoErrors() {
	vb := errors.NewValidationBuilder()
	s.Assert().Nil(vb.Build())
}

func (s *ValidationTestSuite) TestValidateRequired() {
	testCases := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{"valid value", "スライム", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			errors.ValidateRequired("field", tc.value, vb)
			err := vb.Build()
			if tc.shouldErr {
				s.Assert().NotNil(err)
			} else {
				s.Assert().Nil(err)
			}
		})
	}
}

func (s *ValidationTestSuite) TestValidateMaxLengthCountsRunes() {
	vb := errors.NewValidationBuilder()
	errors.ValidateMaxLength("name", "ドラゴン", 4, vb)
	errors.ValidateMaxLength("title", "this is a very long monster title", 20, vb)

	err := vb.Build()
	s.Require().NotNil(err)
	validationErrors := errors.GetMeta(err)["validation_errors"].(map[string][]string)
	s.Assert().Contains(validationErrors["title"][0], "must be no more than 20 characters")
	s.Assert().NotContains(validationErrors, "name")
}

func (s *ValidationTestSuite) TestValidateRange() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("trial_count", 0, 1, 100000, vb)
	errors.ValidateRange("level", 5, 1, 999, vb)

	err := vb.Build()
	s.Require().NotNil(err)
	validationErrors := errors.GetMeta(err)["validation_errors"].(map[string][]string)
	s.Assert().Contains(validationErrors["trial_count"][0], "must be between 1 and 100000")
	s.Assert().NotContains(validationErrors, "level")
}

func (s *ValidationTestSuite) TestValidateProbability() {
	testCases := []struct {
		name      string
		value     float64
		shouldErr bool
	}{
		{"zero", 0, false},
		{"fraction", 0.25, false},
		{"above one", 2.5, false},
		{"at maximum", 1000, false},
		{"above maximum", 1000.5, true},
		{"huge", 1e17, true},
		{"negative", -0.1, true},
		{"nan", math.NaN(), true},
		{"infinite", math.Inf(1), true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			errors.ValidateProbability("probability", tc.value, 1000, vb)
			if tc.shouldErr {
				s.Assert().Error(vb.Build())
			} else {
				s.Assert().NoError(vb.Build())
			}
		})
	}
}
