package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmfreshmart/pos_backend/config"
	"github.com/mmfreshmart/pos_backend/utils"
)

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": data})
}

// respondError maps the error taxonomy onto HTTP statuses: not found to 404,
// business errors (conflict, insufficient stock, validation) to 400,
// everything else to 500 with the detail kept out of the response body.
func respondError(c *gin.Context, err error) {
	if utils.IsNotFoundError(err) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
		return
	}
	if utils.IsBusinessError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	config.LogError(config.GetLogger(), "respond.go", "respondError", c.FullPath(), nil, err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
}
