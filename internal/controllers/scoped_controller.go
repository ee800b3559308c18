package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-menu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/franciscosanchezn/gin-menu-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ScopedController exposes CRUD over one organization-owned resource such as shops or menu products
type ScopedController[T any] struct {
	service services.ScopedService[T]
}

// NewScopedController creates a new instance of ScopedController
func NewScopedController[T any](service services.ScopedService[T]) *ScopedController[T] {
	return &ScopedController[T]{service: service}
}

// Register mounts the five CRUD routes on group
func (sc *ScopedController[T]) Register(group *gin.RouterGroup, write ...gin.HandlerFunc) {
	group.GET("", sc.List)
	group.GET("/:id", sc.Get)
	group.POST("", append(write, sc.Create)...)
	group.PUT("/:id", append(write, sc.Update)...)
	group.DELETE("/:id", append(write, sc.Delete)...)
}

func (sc *ScopedController[T]) List(c *gin.Context) {
	items, err := sc.service.List(c.Request.Context(), middleware.OrganizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewEnvelope(items, ""))
}

func (sc *ScopedController[T]) Get(c *gin.Context) {
	item, err := sc.service.Get(c.Request.Context(), middleware.OrganizationID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewEnvelope(item, ""))
}

func (sc *ScopedController[T]) Create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := sc.service.Create(c.Request.Context(), middleware.OrganizationID(c), &item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewEnvelope(created, models.MsgAdded))
}

func (sc *ScopedController[T]) Update(c *gin.Context) {
	var patch T
	if err := c.ShouldBindWith(&patch, patchBinding{}); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := sc.service.Update(c.Request.Context(), middleware.OrganizationID(c), c.Param("id"), &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewEnvelope(updated, models.MsgUpdated))
}

func (sc *ScopedController[T]) Delete(c *gin.Context) {
	deleted, err := sc.service.Delete(c.Request.Context(), middleware.OrganizationID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewEnvelope(deleted, models.MsgDeleted))
}
