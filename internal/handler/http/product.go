package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/vindenez/Matplaner-backend/internal/domain"
	"github.com/vindenez/Matplaner-backend/internal/service"
	"github.com/vindenez/Matplaner-backend/pkg/httputil"
	"github.com/vindenez/Matplaner-backend/pkg/pagination"
	"github.com/vindenez/Matplaner-backend/pkg/validator"
)

// maxQueryLength caps free-text search queries at the HTTP boundary,
// counted in characters so multibyte letters like æ/ø/å are not penalized.
const maxQueryLength = 50

// ProductHandler handles HTTP requests for product search and matching.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// IngredientRequest is one ingredient reference in a match or price request.
type IngredientRequest struct {
	Name      string  `json:"name" validate:"required,min=1"`
	EAN       string  `json:"ean" validate:"required,min=1"`
	StoreCode string  `json:"storeCode"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Unit      string  `json:"unit"`
}

// MatchRequest is the JSON request body for ingredient matching.
type MatchRequest struct {
	Ingredients []IngredientRequest `json:"ingredients" validate:"required,min=1,max=200,dive"`
}

func (req MatchRequest) toDomain() []domain.Ingredient {
	ingredients := make([]domain.Ingredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ingredients = append(ingredients, domain.Ingredient{
			Name:      ing.Name,
			EAN:       ing.EAN,
			StoreCode: ing.StoreCode,
			Amount:    ing.Amount,
			Unit:      ing.Unit,
		})
	}
	return ingredients
}

// --- Handlers ---

// Search handles GET /api/v1/products/search
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if utf8.RuneCountInString(query) > maxQueryLength {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "query must be at most 50 characters",
			},
		})
		return
	}

	stores := parseStores(r.URL.Query()["stores"])
	params := pagination.FromRequest(r)

	result, err := h.service.Search(r.Context(), query, stores, params.Page, params.PageSize)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Match handles POST /api/v1/products/match
func (h *ProductHandler) Match(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	matches, err := h.service.MatchIngredients(r.Context(), req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	// Keyed by ingredient name for the recipe flow.
	byName := make(map[string][]domain.Product, len(matches))
	for _, m := range matches {
		byName[m.Ingredient.Name] = m.Products
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"matches": byName}})
}

// EstimatePrice handles POST /api/v1/products/price
func (h *ProductHandler) EstimatePrice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	estimate, err := h.service.EstimatePrice(r.Context(), req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: estimate})
}

// GetByEAN handles GET /api/v1/products/ean/{ean}
func (h *ProductHandler) GetByEAN(w http.ResponseWriter, r *http.Request) {
	ean := chi.URLParam(r, "ean")
	if ean == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "ean is required"},
		})
		return
	}

	products, err := h.service.GetByEAN(r.Context(), ean)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"products": products}})
}

// ListByStore handles GET /api/v1/products/store/{code}
func (h *ProductHandler) ListByStore(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "store code is required"},
		})
		return
	}

	products, err := h.service.ListByStore(r.Context(), code)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"products": products}})
}

// RefreshCatalog handles POST /api/v1/catalog/refresh
func (h *ProductHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx := context.Background()
		if err := h.service.RefreshCatalog(ctx); err != nil {
			h.logger.ErrorContext(ctx, "background catalog refresh failed", "error", err)
		}
	}()

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]string{"status": "refresh started"}})
}

// parseStores flattens repeated and comma-separated stores parameters.
func parseStores(raw []string) []string {
	var stores []string
	for _, v := range raw {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				stores = append(stores, s)
			}
		}
	}
	return stores
}
