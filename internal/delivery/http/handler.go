package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopsense/backend/internal/domain"
)

// Recommender answers natural-language shopping queries.
type Recommender interface {
	Recommend(ctx context.Context, request domain.ChatRequest) (*domain.ChatResponse, error)
}

// Syncer pushes the whole catalog to the search index on demand.
type Syncer interface {
	SyncAll(ctx context.Context) (int, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store       domain.ProductStore
	recommender Recommender
	syncer      Syncer
}

// NewHandler creates a new HTTP handler
func NewHandler(store domain.ProductStore, recommender Recommender, syncer Syncer) *Handler {
	return &Handler{
		store:       store,
		recommender: recommender,
		syncer:      syncer,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shopsense-backend",
		"version": "1.0.0",
	})
}

// AddProduct upserts a product by url. Posting an existing url updates it in
// place instead of creating a duplicate.
func (h *Handler) AddProduct(c *gin.Context) {
	var draft domain.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload"})
		return
	}
	if draft.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	result, err := h.store.UpsertByURL(c.Request.Context(), draft)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save product"})
		return
	}

	message := "Product updated"
	if result.Created {
		message = "Product added"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "id": result.Product.ID})
}

// ListProducts returns the whole catalog
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct returns one product by id
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// Chat handles a shopping query. The recommend flow degrades internally, so
// the only error reaching here is an invalid request.
func (h *Handler) Chat(c *gin.Context) {
	var request domain.ChatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	response, err := h.recommender.Recommend(c.Request.Context(), request)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chat failed"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// SyncToIndex pushes every product to the search index, repopulating it from
// scratch when needed.
func (h *Handler) SyncToIndex(c *gin.Context) {
	synced, err := h.syncer.SyncAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "sync incomplete",
			"synced": synced,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "catalog synced to index", "synced": synced})
}
