package handlers

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petshop/api/middleware"
	"petshop/internal/models"
	"petshop/internal/services"
)

type PetHandler struct {
	petService *services.PetService
	logger     *zap.Logger
}

func NewPetHandler(petService *services.PetService, logger *zap.Logger) *PetHandler {
	return &PetHandler{
		petService: petService,
		logger:     logger,
	}
}

// GET /api/pets
// Filters: species, breed, minPrice, maxPrice, search
func (h *PetHandler) GetPets(c *gin.Context) {
	filter := models.PetFilter{
		Species: strings.TrimSpace(c.Query("species")),
		Breed:   strings.TrimSpace(c.Query("breed")),
		Search:  strings.TrimSpace(c.Query("search")),
	}

	var ok bool
	if filter.MinPrice, ok = parsePriceQuery(c, "minPrice"); !ok {
		return
	}
	if filter.MaxPrice, ok = parsePriceQuery(c, "maxPrice"); !ok {
		return
	}

	pets, err := h.petService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, pets)
}

// GET /api/pets/:id
func (h *PetHandler) GetPetByID(c *gin.Context) {
	pet, err := h.petService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, pet)
}

// POST /api/pets (admin)
func (h *PetHandler) CreatePet(c *gin.Context) {
	var req models.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pet, err := h.petService.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, pet)
}

// PUT /api/pets/:id (admin)
func (h *PetHandler) UpdatePet(c *gin.Context) {
	var req models.UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pet, err := h.petService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, pet)
}

// DELETE /api/pets/:id (admin)
func (h *PetHandler) DeletePet(c *gin.Context) {
	if err := h.petService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pet removed"})
}

// Health check endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// Metrics endpoint
func Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"goroutines": runtime.NumGoroutine(),
		"timestamp":  time.Now().Unix(),
	})
}

// parsePriceQuery reads an optional decimal query parameter. On a malformed
// value it writes a 400 and returns false.
func parsePriceQuery(c *gin.Context, key string) (*decimal.Decimal, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}

	v, err := decimal.NewFromString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + key})
		return nil, false
	}
	return &v, true
}
