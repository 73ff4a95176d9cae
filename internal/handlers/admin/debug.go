package admin

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ProductSampler lit un échantillon de la table products
type ProductSampler interface {
	SampleProducts(ctx context.Context) ([]map[string]any, error)
}

type Handler struct {
	sampler ProductSampler
}

func NewHandler(sampler ProductSampler) *Handler {
	return &Handler{sampler: sampler}
}

// DebugProduct vérifie l'accès à la base : GET /api/debug-product
func (h *Handler) DebugProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	data, err := h.sampler.SampleProducts(ctx)
	if err != nil {
		log.Println("❌ Diagnostic products:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}
