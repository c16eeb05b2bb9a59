package controller

import (
	"net/http"

	"opportunity-search-api/internal/common"
	"opportunity-search-api/internal/entity"
	"opportunity-search-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type searchRoutesHandler struct {
	searchService      service.Search
	importService      service.Importer
	descriptionService service.Description
	validate           *validator.Validate
}

func newSearchRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *searchRoutesHandler {
	h := &searchRoutesHandler{
		searchService:      services.Search,
		importService:      services.Importer,
		descriptionService: services.Description,
		validate:           v,
	}

	outer.POST("/search-opportunities/search", h.Search)
	outer.POST("/search-opportunities/import-solicitation", h.ImportSolicitation)
	outer.POST("/search-opportunities/opportunity-description", h.OpportunityDescription)

	return h
}

type searchInput struct {
	OrgId            string   `json:"orgId" validate:"required,max=100"`
	Source           string   `json:"source" validate:"omitempty,oneof=ALL SAM_GOV DIBBS"`
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

// /search-opportunities/search
func (h *searchRoutesHandler) Search(c echo.Context) error {
	var input searchInput
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

	criteria := &entity.SearchCriteria{
		Keywords:         input.Keywords,
		Naics:            input.Naics,
		SetAsideCode:     input.SetAsideCode,
		OrganizationName: input.OrganizationName,
		Ptype:            input.Ptype,
		PostedFrom:       input.PostedFrom,
		PostedTo:         input.PostedTo,
		ClosingFrom:      input.ClosingFrom,
		ClosingTo:        input.ClosingTo,
		Limit:            int(input.Limit),
		Offset:           int(input.Offset),
	}
	if criteria.Limit == 0 {
		criteria.Limit = defaultLimit
	}
	if input.Source != "" && input.Source != common.SourceAll {
		criteria.Sources = []string{input.Source}
	}

	page, err := h.searchService.Search(c.Request().Context(), input.OrgId, criteria)
	if err == nil {
		if e := c.JSON(http.StatusOK, page); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrInvalidDate, service.ErrInvalidDateRange, service.ErrUnknownSource:
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

type importSolicitationInput struct {
	OrgId              string `json:"orgId" validate:"required,max=100"`
	ProjectId          string `json:"projectId" validate:"required,max=100"`
	Source             string `json:"source" validate:"required,oneof=SAM_GOV DIBBS"`
	NoticeId           string `json:"noticeId" validate:"required_without=SolicitationNumber,max=200"`
	SolicitationNumber string `json:"solicitationNumber" validate:"max=200"`
	PostedFrom         string `json:"postedFrom" validate:"omitempty,datetime=2006-01-02"`
	PostedTo           string `json:"postedTo" validate:"omitempty,datetime=2006-01-02"`
}

// /search-opportunities/import-solicitation
func (h *searchRoutesHandler) ImportSolicitation(c echo.Context) error {
	var input importSolicitationInput
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

	opportunityId := input.NoticeId
	if opportunityId == "" {
		opportunityId = input.SolicitationNumber
	}

	result, err := h.importService.Import(c.Request().Context(), &entity.ImportInput{
		OrgId:         input.OrgId,
		ProjectId:     input.ProjectId,
		Source:        input.Source,
		OpportunityId: opportunityId,
		PostedFrom:    input.PostedFrom,
		PostedTo:      input.PostedTo,
	})
	if err == nil {
		if e := c.JSON(http.StatusOK, result); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUnknownSource, service.ErrApiKeyNotConfigured:
		if e := c.JSON(http.StatusBadRequest, errorResponse{err.Error()}); e != nil {
			return e
		}
	case service.ErrOpportunityNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{err.Error()}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadGateway, errorResponse{err.Error()}); e != nil {
			return e
		}
	}

	return nil
}

type opportunityDescriptionInput struct {
	OrgId          string `json:"orgId" validate:"required,max=100"`
	Source         string `json:"source" validate:"required,oneof=SAM_GOV DIBBS"`
	DescriptionUrl string `json:"descriptionUrl" validate:"required,max=2000"`
}

type opportunityDescriptionOutput struct {
	// Description is raw HTML from the source, not sanitized here; callers
	// must sanitize before rendering.
	Description string `json:"description"`
}

// /search-opportunities/opportunity-description
func (h *searchRoutesHandler) OpportunityDescription(c echo.Context) error {
	var input opportunityDescriptionInput
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

	description, err := h.descriptionService.FetchDescription(c.Request().Context(), input.OrgId, input.Source, input.DescriptionUrl)
	if err == nil {
		if e := c.JSON(http.StatusOK, opportunityDescriptionOutput{Description: description}); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUnknownSource, service.ErrApiKeyNotConfigured:
		if e := c.JSON(http.StatusBadRequest, errorResponse{err.Error()}); e != nil {
			return e
		}
	case service.ErrDescriptionNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{err.Error()}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadGateway, errorResponse{err.Error()}); e != nil {
			return e
		}
	}

	return nil
}
