package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"expenses-api/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type ErrorHandlerTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (s *ErrorHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
}

func TestErrorHandlerSuite(t *testing.T) {
	suite.Run(t, new(ErrorHandlerTestSuite))
}

func (s *ErrorHandlerTestSuite) handle(err error) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.Set(TraceIDContextKey, "error-trace-id")

	CustomHTTPErrorHandler(err, c)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body["error"].(map[string]any)
}

func (s *ErrorHandlerTestSuite) TestEchoHTTPError_NotFound() {
	rec, errObj := s.handle(echo.NewHTTPError(http.StatusNotFound, "route not found"))

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("USER_001", errObj["code"])
	s.Equal("route not found", errObj["message"])
	s.Equal("error-trace-id", errObj["trace_id"])
}

func (s *ErrorHandlerTestSuite) TestEchoHTTPError_PayloadTooLarge() {
	rec, errObj := s.handle(echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large"))

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Equal("UPLOAD_004", errObj["code"])
}

func (s *ErrorHandlerTestSuite) TestValidationErrors() {
	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required"`
	}

	err := validation.GetValidator().GetValidate().Struct(payload{Email: "not-an-email"})
	s.Require().Error(err)
	_, ok := err.(validator.ValidationErrors)
	s.Require().True(ok)

	rec, errObj := s.handle(err)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_001", errObj["code"])
	details := fmt.Sprint(errObj["details"])
	s.Contains(details, "Email: must be a valid email address")
	s.Contains(details, "Name: is required")
}

func (s *ErrorHandlerTestSuite) TestGenericError() {
	rec, errObj := s.handle(fmt.Errorf("unexpected database failure"))

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("SYSTEM_001", errObj["code"])
}

func (s *ErrorHandlerTestSuite) TestCommittedResponseIsLeftAlone() {
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.NoError(c.NoContent(http.StatusOK))
	CustomHTTPErrorHandler(fmt.Errorf("too late"), c)

	s.Equal(http.StatusOK, rec.Code)
	s.Empty(rec.Body.String())
}
