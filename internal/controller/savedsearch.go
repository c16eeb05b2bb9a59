package controller

import (
	"net/http"
	"strconv"

	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type savedSearchRoutesHandler struct {
	savedSearchService service.SavedSearch
	validate           *validator.Validate
}

func newSavedSearchRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *savedSearchRoutesHandler {
	h := &savedSearchRoutesHandler{savedSearchService: services.SavedSearch, validate: v}

	outer.POST("/search-opportunities/saved-search", h.CreateSavedSearch)
	outer.GET("/search-opportunities/saved-search", h.ListSavedSearches)
	outer.PATCH("/search-opportunities/saved-search/:savedSearchId", h.EditSavedSearch)
	outer.DELETE("/search-opportunities/saved-search/:savedSearchId", h.DeleteSavedSearch)

	return h
}

type savedSearchCriteriaInput struct {
	Keywords         string   `json:"keywords" validate:"max=500"`
	Naics            []string `json:"naics" validate:"dive,max=10"`
	SetAsideCode     string   `json:"setAsideCode" validate:"max=20"`
	OrganizationName string   `json:"organizationName" validate:"max=200"`
	Ptype            []string `json:"ptype" validate:"dive,max=10"`
	PostedFrom       string   `json:"postedFrom" validate:"omitempty,datetime=2006-01-02"`
	PostedTo         string   `json:"postedTo" validate:"omitempty,datetime=2006-01-02"`
	ClosingFrom      string   `json:"closingFrom" validate:"omitempty,datetime=2006-01-02"`
	ClosingTo        string   `json:"closingTo" validate:"omitempty,datetime=2006-01-02"`
	Limit            int32    `json:"limit" validate:"gte=0,lte=100"`
	Offset           int32    `json:"offset" validate:"gte=0"`
}

func (in *savedSearchCriteriaInput) toCriteria() entity.SearchCriteria {
	return entity.SearchCriteria{
		Keywords:         in.Keywords,
		Naics:            in.Naics,
		SetAsideCode:     in.SetAsideCode,
		OrganizationName: in.OrganizationName,
		Ptype:            in.Ptype,
		PostedFrom:       in.PostedFrom,
		PostedTo:         in.PostedTo,
		ClosingFrom:      in.ClosingFrom,
		ClosingTo:        in.ClosingTo,
		Limit:            int(in.Limit),
		Offset:           int(in.Offset),
	}
}

type createSavedSearchInput struct {
	OrgId        string                   `json:"orgId" validate:"required,max=100"`
	Source       string                   `json:"source" validate:"required,oneof=SAM_GOV DIBBS"`
	Name         string                   `json:"name" validate:"required,max=200"`
	ProjectId    string                   `json:"projectId" validate:"max=100"`
	Criteria     savedSearchCriteriaInput `json:"criteria" validate:"required"`
	Frequency    string                   `json:"frequency" validate:"required,oneof=HOURLY DAILY WEEKLY"`
	AutoImport   bool                     `json:"autoImport"`
	NotifyEmails []string                 `json:"notifyEmails" validate:"dive,email"`
	IsEnabled    *bool                    `json:"isEnabled"`
}

// /search-opportunities/saved-search
func (h *savedSearchRoutesHandler) CreateSavedSearch(c echo.Context) error {
	var input createSavedSearchInput
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

	enabled := true
	if input.IsEnabled != nil {
		enabled = *input.IsEnabled
	}

	model := &entity.CreateSavedSearchInput{
		OrgId:        input.OrgId,
		Source:       input.Source,
		Name:         input.Name,
		ProjectId:    input.ProjectId,
		Criteria:     input.Criteria.toCriteria(),
		Frequency:    input.Frequency,
		AutoImport:   input.AutoImport,
		NotifyEmails: input.NotifyEmails,
		IsEnabled:    enabled,
	}

	saved, err := h.savedSearchService.CreateSavedSearch(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, saved); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUnknownSource, service.ErrUnknownFrequency, service.ErrInvalidDate, service.ErrInvalidDateRange:
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

// /search-opportunities/saved-search
func (h *savedSearchRoutesHandler) ListSavedSearches(c echo.Context) error {
	orgId := c.QueryParam("orgId")
	if orgId == "" {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"'orgId': this field is required"}); e != nil {
			return e
		}

		return nil
	}

	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Incorrect limit value"}); e != nil {
			return e
		}

		return nil
	}
	offset, err := queryInt(c, "offset", defaultOffset)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Incorrect offset value"}); e != nil {
			return e
		}

		return nil
	}

	pg := entity.NewPaginationInput(limit, offset)
	searches, err := h.savedSearchService.ListSavedSearches(c.Request().Context(), orgId, c.QueryParam("source"), pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, searches); e != nil {
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

type patchSavedSearchInput struct {
	Name         *string                   `json:"name" validate:"omitempty,max=200"`
	ProjectId    *string                   `json:"projectId" validate:"omitempty,max=100"`
	Criteria     *savedSearchCriteriaInput `json:"criteria"`
	Frequency    *string                   `json:"frequency" validate:"omitempty,oneof=HOURLY DAILY WEEKLY"`
	AutoImport   *bool                     `json:"autoImport"`
	NotifyEmails *[]string                 `json:"notifyEmails" validate:"omitempty,dive,email"`
	IsEnabled    *bool                     `json:"isEnabled"`
}

// /search-opportunities/saved-search/:savedSearchId
func (h *savedSearchRoutesHandler) EditSavedSearch(c echo.Context) error {
	var input patchSavedSearchInput
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

	patch := &entity.PatchSavedSearchInput{
		Name:         input.Name,
		ProjectId:    input.ProjectId,
		Frequency:    input.Frequency,
		AutoImport:   input.AutoImport,
		NotifyEmails: input.NotifyEmails,
		IsEnabled:    input.IsEnabled,
	}
	if input.Criteria != nil {
		criteria := input.Criteria.toCriteria()
		patch.Criteria = &criteria
	}

	updated, err := h.savedSearchService.EditSavedSearch(c.Request().Context(), c.Param("savedSearchId"), patch)
	if err == nil {
		if e := c.JSON(http.StatusOK, updated); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrSavedSearchNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{err.Error()}); e != nil {
			return e
		}
	case service.ErrUnknownSource, service.ErrUnknownFrequency, service.ErrInvalidDate, service.ErrInvalidDateRange:
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

// /search-opportunities/saved-search/:savedSearchId
func (h *savedSearchRoutesHandler) DeleteSavedSearch(c echo.Context) error {
	err := h.savedSearchService.DeleteSavedSearch(c.Request().Context(), c.Param("savedSearchId"))
	if err == nil {
		if e := c.NoContent(http.StatusOK); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrSavedSearchNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{err.Error()}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{err.Error()}); e != nil {
			return e
		}
	}

	return nil
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}

	return strconv.Atoi(raw)
}
