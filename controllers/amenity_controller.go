package controllers

import (
	"net/http"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type AmenityController struct {
	Service *services.AmenityService
}

func NewAmenityController(service *services.AmenityService) *AmenityController {
	return &AmenityController{Service: service}
}

func (ac *AmenityController) GetAmenities(c *gin.Context) {
	amenities, err := ac.Service.GetAll()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load amenities")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, amenities)
}

type createAmenityInput struct {
	Name        string  `json:"name" binding:"required"`
	DisplayName *string `json:"display_name"`
	IconURL     *string `json:"icon_url"`
}

// CreateAmenity adds a catalog entry, or returns the existing one when
// the normalized name is already known.
func (ac *AmenityController) CreateAmenity(c *gin.Context) {
	var input createAmenityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	amenity, err := ac.Service.FindOrCreate(input.Name, input.DisplayName, input.IconURL)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Failed to create amenity")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, amenity)
}
