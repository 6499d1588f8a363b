package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"country-currency-api/internal/domains/country/model"
	"country-currency-api/internal/domains/country/service"
	"country-currency-api/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CountryHandler handles HTTP requests for country domain
type CountryHandler struct {
	refreshService service.RefreshServiceInterface
	countryService service.CountryServiceInterface
	summaryService service.SummaryServiceInterface
}

// NewCountryHandler creates a new country handler instance
// Dependency injection pattern - receives services from container
func NewCountryHandler(
	refreshService service.RefreshServiceInterface,
	countryService service.CountryServiceInterface,
	summaryService service.SummaryServiceInterface,
) *CountryHandler {
	return &CountryHandler{
		refreshService: refreshService,
		countryService: countryService,
		summaryService: summaryService,
	}
}

func (h *CountryHandler) handleError(c *gin.Context, err error) {
	status, message, details := model.MapErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Request failed")
	}
	response.Error(c, status, message, details)
}

// bindFilter đọc query string; trả về false nếu đã ghi 400
func (h *CountryHandler) bindFilter(c *gin.Context) (model.ListFilter, bool) {
	var req model.ListCountriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters", response.ValidationDetails(err))
		return model.ListFilter{}, false
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.handleError(c, err)
		return model.ListFilter{}, false
	}
	return filter, true
}

// RefreshCountries handles POST /countries/refresh
func (h *CountryHandler) RefreshCountries(c *gin.Context) {
	result, err := h.refreshService.Refresh(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.NewRefreshResponse(result))
}

// ListCountries handles GET /countries?region=&currency=&sort=
func (h *CountryHandler) ListCountries(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	countries, err := h.countryService.ListCountries(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, countries)
}

// ExportCountries handles GET /countries/export
func (h *CountryHandler) ExportCountries(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	f, err := h.countryService.ExportCountries(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		h.handleError(c, fmt.Errorf("write workbook: %w", err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="countries.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetSummaryImage handles GET /countries/image
func (h *CountryHandler) GetSummaryImage(c *gin.Context) {
	if !h.summaryService.Exists() {
		response.NotFound(c, "Summary image not found")
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.File(h.summaryService.ImagePath())
}

// GetCountry handles GET /countries/:name
func (h *CountryHandler) GetCountry(c *gin.Context) {
	country, err := h.countryService.GetCountry(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, country)
}

// DeleteCountry handles DELETE /countries/:name
func (h *CountryHandler) DeleteCountry(c *gin.Context) {
	deleted, err := h.countryService.DeleteCountry(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Country '%s' deleted successfully", deleted.Name),
	})
}

// GetStatus handles GET /status
func (h *CountryHandler) GetStatus(c *gin.Context) {
	status, err := h.countryService.GetStatus(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, status)
}

// RegisterRoutes gắn các route country vào router.
// refreshGuard chạy trước POST /countries/refresh (rate limit).
func (h *CountryHandler) RegisterRoutes(r gin.IRouter, refreshGuard ...gin.HandlerFunc) {
	countries := r.Group("/countries")
	{
		countries.POST("/refresh", append(refreshGuard, h.RefreshCountries)...)
		countries.GET("", h.ListCountries)
		countries.GET("/export", h.ExportCountries)
		countries.GET("/image", h.GetSummaryImage)
		countries.GET("/:name", h.GetCountry)
		countries.DELETE("/:name", h.DeleteCountry)
	}

	r.GET("/status", h.GetStatus)
}
