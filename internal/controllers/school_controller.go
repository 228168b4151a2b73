package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campushub/internal/models"
)

type schoolInput struct {
	Name    string `json:"name" binding:"required"`
	Code    string `json:"code" binding:"required"`
	Address string `json:"address"`
}

// CreateSchool registers a new tenant.
func (ctl *Controller) CreateSchool(c *gin.Context) {
	var input schoolInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	school := models.School{Name: input.Name, Code: input.Code, Address: input.Address}
	if err := ctl.DB.Create(&school).Error; err != nil {
		dbFail(c, err, "school")
		return
	}
	respond(c, http.StatusCreated, school, "school created")
}

func (ctl *Controller) GetSchool(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var school models.School
	if err := ctl.DB.First(&school, id).Error; err != nil {
		dbFail(c, err, "school")
		return
	}
	respond(c, http.StatusOK, school, "")
}

func (ctl *Controller) ListSchools(c *gin.Context) {
	var schools []models.School
	if err := ctl.DB.Order("name").Find(&schools).Error; err != nil {
		dbFail(c, err, "school")
		return
	}
	respond(c, http.StatusOK, schools, "")
}

// UpdateSchool modifies an existing school
func (ctl *Controller) UpdateSchool(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var school models.School
	if err := ctl.DB.First(&school, id).Error; err != nil {
		dbFail(c, err, "school")
		return
	}

	var input struct {
		Name    *string `json:"name"`
		Code    *string `json:"code"`
		Address *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if input.Name != nil {
		school.Name = *input.Name
	}
	if input.Code != nil {
		school.Code = *input.Code
	}
	if input.Address != nil {
		school.Address = *input.Address
	}

	if err := ctl.DB.Save(&school).Error; err != nil {
		dbFail(c, err, "school")
		return
	}
	respond(c, http.StatusOK, school, "school updated")
}

func (ctl *Controller) DeleteSchool(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res := ctl.DB.Delete(&models.School{}, id)
	if res.Error != nil {
		dbFail(c, res.Error, "school")
		return
	}
	if res.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "school not found")
		return
	}
	respond(c, http.StatusOK, nil, "school deleted")
}
