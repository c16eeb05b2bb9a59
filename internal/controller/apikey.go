package controller

import (
	"net/http"

	"opportunity-search-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type apiKeyRoutesHandler struct {
	credentialService service.Credential
	validate          *validator.Validate
}

func newApiKeyRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *apiKeyRoutesHandler {
	h := &apiKeyRoutesHandler{credentialService: services.Credential, validate: v}

	outer.POST("/search-opportunities/api-key", h.SetApiKey)
	outer.GET("/search-opportunities/api-key", h.GetApiKeyStatus)

	return h
}

type setApiKeyInput struct {
	OrgId  string `json:"orgId" validate:"required,max=100"`
	Source string `json:"source" validate:"required,oneof=SAM_GOV DIBBS"`
	ApiKey string `json:"apiKey" validate:"required,max=500"`
}

// /search-opportunities/api-key
// The key is accepted, stored and never echoed back in full.
func (h *apiKeyRoutesHandler) SetApiKey(c echo.Context) error {
	var input setApiKeyInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	err := h.credentialService.SetKey(c.Request().Context(), input.OrgId, input.Source, input.ApiKey)
	if err == nil {
		if e := c.NoContent(http.StatusOK); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUnknownSource:
		if e := c.JSON(http.StatusBadRequest, errorResponse{err.Error()}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{err.Error()}); e != nil {
			return e
		}
	}

	return nil
}

// /search-opportunities/api-key
func (h *apiKeyRoutesHandler) GetApiKeyStatus(c echo.Context) error {
	orgId := c.QueryParam("orgId")
	source := c.QueryParam("source")
	if orgId == "" || source == "" {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"'orgId' and 'source' query parameters are required"}); e != nil {
			return e
		}

		return nil
	}

	status, err := h.credentialService.GetKeyStatus(c.Request().Context(), orgId, source)
	if err == nil {
		if e := c.JSON(http.StatusOK, status); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUnknownSource:
		if e := c.JSON(http.StatusBadRequest, errorResponse{err.Error()}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{err.Error()}); e != nil {
			return e
		}
	}

	return nil
}
