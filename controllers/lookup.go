package controllers

import (
	"fmt"
	"net/http"

	"cine-circle/database"

	"github.com/gin-gonic/gin"
)

// ListLookups sends the code/text definitions (genres, roles)
func ListLookups(c *gin.Context) {
	lookups, err := database.GetLookups()
	if err != nil {
		fmt.Println(err)
		c.JSON(http.StatusNoContent, nil)
		return
	}

	c.JSON(http.StatusOK, lookups)
}
