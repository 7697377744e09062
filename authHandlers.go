package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmfreshmart/pos_backend/models"
	"github.com/mmfreshmart/pos_backend/utils"
)

func loginHandler() gin.HandlerFunc {
	type loginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}

		user, err := models.GetUserByEmail(c.Request.Context(), req.Email)
		if err != nil || !utils.CheckPasswordHash(req.Password, user.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid credentials"})
			return
		}
		if user.IsActive != nil && !*user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "account disabled"})
			return
		}

		token, err := utils.JwtGenerate(user.ID, user.Email, user.Role)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "login successful", gin.H{"token": token, "user": user})
	}
}
