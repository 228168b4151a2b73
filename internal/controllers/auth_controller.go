package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campushub/internal/models"
)

type signupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	SchoolID *uint  `json:"school_id"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (ctl *Controller) Signup(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	role, err := validateAndNormalizeRole(input.Role)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not hash password")
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    strings.ToLower(input.Email),
		Password: hashedPassword,
		Phone:    input.Phone,
		Role:     role,
	}

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if role.TenantScoped() {
			if input.SchoolID == nil {
				return errSchoolRequired
			}
			var school models.School
			if err := tx.First(&school, *input.SchoolID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errUnknownSchool
				}
				return err
			}
			user.SchoolID = &school.ID
			user.School = &school
		}
		return tx.Omit("School").Create(&user).Error
	})
	switch {
	case errors.Is(err, errSchoolRequired), errors.Is(err, errUnknownSchool):
		fail(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, gorm.ErrDuplicatedKey):
		fail(c, http.StatusConflict, "email already in use")
		return
	case err != nil:
		logrus.WithError(err).Error("Signup: could not create user")
		fail(c, http.StatusInternalServerError, "could not create user")
		return
	}

	token, err := ctl.Auth.GenerateToken(user)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not generate token")
		return
	}
	respond(c, http.StatusCreated, authResponse{Token: token, User: user}, "account created")
}

func (ctl *Controller) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := ctl.DB.Preload("School").Where("email = ?", strings.ToLower(body.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusUnauthorized, "user not found or invalid credentials")
		} else {
			dbFail(c, err, "user")
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "incorrect password")
		return
	}

	token, err := ctl.Auth.GenerateToken(user)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not generate token")
		return
	}
	respond(c, http.StatusOK, authResponse{Token: token, User: user}, "")
}

var (
	errSchoolRequired = errors.New("school_id is required for school_admin and student accounts")
	errUnknownSchool  = errors.New("school with the provided school_id does not exist")
)

func validateAndNormalizeRole(roleInput string) (models.Role, error) {
	role := models.Role(strings.ToLower(strings.TrimSpace(roleInput)))
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return "", errors.New("invalid role")
	}
	return role, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
