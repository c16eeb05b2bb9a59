package controller

import (
	"opportunity-search-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newSearchRoutesHandler(api, services, validate)
	newSavedSearchRoutesHandler(api, services, validate)
	newApiKeyRoutesHandler(api, services, validate)
}
