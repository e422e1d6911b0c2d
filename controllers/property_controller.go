package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PropertyController struct {
	Service *services.PropertyService
}

func NewPropertyController(service *services.PropertyService) *PropertyController {
	return &PropertyController{Service: service}
}

// GetProperties lists properties in the minimal summary shape with a
// pagination envelope.
func (pc *PropertyController) GetProperties(c *gin.Context) {
	params := services.PropertyListParams{
		Search:       c.Query("search"),
		City:         c.Query("city"),
		PropertyType: c.Query("property_type"),
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
	}

	if raw := c.Query("listed"); raw != "" {
		listed, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "listed must be a boolean")
			return
		}
		params.Listed = &listed
	}
	params.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	params.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "15"))

	result, err := pc.Service.List(params)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load properties")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (pc *PropertyController) GetProperty(c *gin.Context) {
	detail, err := pc.Service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Property not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load property")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, detail)
}

func (pc *PropertyController) UpdateProperty(c *gin.Context) {
	var input services.PropertyUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := pc.Service.Update(c.Param("id"), input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Property not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update property")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, detail)
}

type updatePhotosInput struct {
	Images       []services.ImageInput `json:"images" binding:"required"`
	PrimaryImage *services.ImageInput  `json:"primary_image"`
}

// UpdatePhotos fully replaces the property's gallery with the posted set.
func (pc *PropertyController) UpdatePhotos(c *gin.Context) {
	var input updatePhotosInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	images, err := pc.Service.ReplacePhotos(c.Param("id"), input.Images, input.PrimaryImage)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Property not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update photos")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"images": images})
}

func (pc *PropertyController) DeletePhoto(c *gin.Context) {
	imageID, err := strconv.ParseUint(c.Param("imageId"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid image id")
		return
	}

	deleted, err := pc.Service.DeletePhoto(c.Param("id"), uint(imageID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Photo not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete photo")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": deleted})
}
