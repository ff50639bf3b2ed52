package bookstoreserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	promodomain "github.com/bookhaven/bookstore-api/internal/domains/promotions/domain"
	promoports "github.com/bookhaven/bookstore-api/internal/domains/promotions/ports"
)

// PromotionsAPI wires HTTP transport with the promotions bounded context.
type PromotionsAPI struct {
	service promoports.Service
}

// NewPromotionsAPI creates a PromotionsAPI backed by the provided service.
func NewPromotionsAPI(service promoports.Service) PromotionsAPI {
	return PromotionsAPI{service: service}
}

// Promotion is the wire shape of a promotion. Dates travel as YYYY-MM-DD.
type Promotion struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name" binding:"required"`
	Type      string  `json:"type" binding:"required"`
	Value     int64   `json:"value"`
	StartDate string  `json:"startDate" binding:"required"`
	EndDate   string  `json:"endDate" binding:"required"`
	BookIDs   []int64 `json:"bookIds" binding:"required"`
}

func fromPromotion(p *promodomain.Promotion) Promotion {
	return Promotion{
		ID:        p.ID,
		Name:      p.Name,
		Type:      string(p.Type),
		Value:     p.Value,
		StartDate: p.Period.Start.String(),
		EndDate:   p.Period.End.String(),
		BookIDs:   p.BookIDs,
	}
}

func toPromotionInput(payload Promotion) (promoports.PromotionInput, error) {
	period, err := parsePeriod(payload.StartDate, payload.EndDate)
	if err != nil {
		return promoports.PromotionInput{}, err
	}
	return promoports.PromotionInput{
		Name:    payload.Name,
		Type:    promodomain.DiscountType(payload.Type),
		Value:   payload.Value,
		Period:  period,
		BookIDs: payload.BookIDs,
	}, nil
}

func parsePeriod(start, end string) (promodomain.Range, error) {
	startDate, err := promodomain.ParseDate(start)
	if err != nil {
		return promodomain.Range{}, err
	}
	endDate, err := promodomain.ParseDate(end)
	if err != nil {
		return promodomain.Range{}, err
	}
	return promodomain.Range{Start: startDate, End: endDate}, nil
}

// Get /v2/promotions/available-books
// Books not yet committed to an overlapping promotion
func (api *PromotionsAPI) ListAvailableBooks(c *gin.Context) {
	period, err := parsePeriod(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	var excludeID int64
	if raw := c.Query("exclude_id"); raw != "" {
		excludeID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}
	}
	books, err := api.service.ListAvailableBooks(c.Request.Context(), period, excludeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromBookList(books))
}

// Get /v2/promotions
// List all promotions
func (api *PromotionsAPI) ListPromotions(c *gin.Context) {
	promotions, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]Promotion, 0, len(promotions))
	for _, p := range promotions {
		out = append(out, fromPromotion(p))
	}
	c.JSON(http.StatusOK, out)
}

// Get /v2/promotions/:promotionId
// Find promotion by ID
func (api *PromotionsAPI) GetPromotionById(c *gin.Context) {
	id, ok := parseIDParam(c, "promotionId")
	if !ok {
		return
	}
	promotion, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromPromotion(promotion))
}

// Post /v2/promotions
// Create a promotion
func (api *PromotionsAPI) CreatePromotion(c *gin.Context) {
	var payload Promotion
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input, err := toPromotionInput(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	created, err := api.service.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromPromotion(created))
}

// Put /v2/promotions/:promotionId
// Update an existing promotion
func (api *PromotionsAPI) UpdatePromotion(c *gin.Context) {
	id, ok := parseIDParam(c, "promotionId")
	if !ok {
		return
	}
	var payload Promotion
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input, err := toPromotionInput(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromPromotion(updated))
}

// Delete /v2/promotions/:promotionId
// Remove a promotion
func (api *PromotionsAPI) DeletePromotion(c *gin.Context) {
	id, ok := parseIDParam(c, "promotionId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
