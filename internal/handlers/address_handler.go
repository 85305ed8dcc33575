package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ghostsapi/internal/models"
	"ghostsapi/internal/services"
)

type AddressHandler struct {
	service services.AddressService
}

func NewAddressHandler(service services.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

// @Summary      Create address
// @Tags         Addresses
// @Accept       json
// @Produce      json
// @Param        address  body      models.AddressRequest  true  "Address data"
// @Success      201      {object}  models.Address
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Security     BearerAuth
// @Router       /addresses [post]
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	address := &models.Address{
		UserID:  req.UserID,
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Country: req.Country,
	}
	if err := h.service.CreateAddress(address); err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, address)
}

// @Summary      Get address by ID
// @Tags         Addresses
// @Produce      json
// @Param        id   path      int  true  "Address ID"
// @Success      200  {object}  models.Address
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /addresses/{id} [get]
func (h *AddressHandler) GetAddress(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
		return
	}
	address, err := h.service.GetAddressByID(id)
	if err != nil || address == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}
	c.JSON(http.StatusOK, address)
}

// @Summary      List addresses of a user
// @Tags         Addresses
// @Produce      json
// @Param        user_id  path      int  true  "User ID"
// @Success      200      {array}   models.Address
// @Failure      500      {object}  map[string]string
// @Security     BearerAuth
// @Router       /addresses/user/{user_id} [get]
func (h *AddressHandler) ListAddressesByUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	addresses, err := h.service.ListAddressesByUser(userID)
	if err != nil {
		log.Printf("[addresses][list] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list addresses"})
		return
	}
	c.JSON(http.StatusOK, addresses)
}

// @Summary      Update address
// @Tags         Addresses
// @Accept       json
// @Produce      json
// @Param        id       path      int                    true  "Address ID"
// @Param        address  body      models.AddressRequest  true  "Address data"
// @Success      200      {object}  models.Address
// @Failure      404      {object}  map[string]string
// @Security     BearerAuth
// @Router       /addresses/{id} [put]
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
		return
	}
	existing, err := h.service.GetAddressByID(id)
	if err != nil || existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}

	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	existing.Street = req.Street
	existing.City = req.City
	existing.State = req.State
	existing.ZipCode = req.ZipCode
	existing.Country = req.Country

	if err := h.service.UpdateAddress(existing); err != nil {
		log.Printf("[addresses][update] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update address"})
		return
	}
	c.JSON(http.StatusOK, existing)
}

// @Summary      Delete address
// @Tags         Addresses
// @Produce      json
// @Param        id   path      int  true  "Address ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /addresses/{id} [delete]
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
		return
	}
	existing, err := h.service.GetAddressByID(id)
	if err != nil || existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}
	if err := h.service.DeleteAddress(id); err != nil {
		log.Printf("[addresses][delete] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Address deleted"})
}
