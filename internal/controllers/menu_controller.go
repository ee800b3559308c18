package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-menu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/franciscosanchezn/gin-menu-api/internal/services"
	"github.com/gin-gonic/gin"
)

// MenuController handles HTTP requests related to menus
type MenuController struct {
	service services.MenuService
}

// NewMenuController creates a new instance of MenuController
func NewMenuController(service services.MenuService) *MenuController {
	return &MenuController{service: service}
}

// CreateMenu godoc
// @Summary Build a menu
// @Description Link catalog categories, products and options into a menu. Passing menuId rebuilds that menu in place.
// @Tags menus
// @Accept json
// @Produce json
// @Param menuId query string false "Existing menu to rebuild"
// @Param menu body models.MenuSpec true "Menu tree"
// @Success 200 {object} models.Envelope{data=models.Menu}
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /menu [post]
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var spec models.MenuSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		respondBindError(c, err)
		return
	}

	menu, err := mc.service.BuildMenu(c.Request.Context(), middleware.OrganizationID(c), &spec, c.Query("menuId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewEnvelope(menu, models.MsgAdded))
}

// UpdateMenu godoc
// @Summary Replace a menu
// @Description Discard the link tree of a menu and write the given one atomically
// @Tags menus
// @Accept json
// @Produce json
// @Param menuId path string true "Menu ID"
// @Param menu body models.MenuSpec true "Menu tree"
// @Success 200 {object} models.Envelope{data=models.Menu}
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /menu/{menuId} [put]
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var spec models.MenuSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		respondBindError(c, err)
		return
	}

	menu, err := mc.service.ReplaceMenu(c.Request.Context(), middleware.OrganizationID(c), c.Param("menuId"), &spec)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewEnvelope(menu, models.MsgUpdated))
}

// DeleteMenu godoc
// @Summary Delete a menu
// @Description Delete a menu and its links. Catalog entries are kept.
// @Tags menus
// @Produce json
// @Param menuId path string true "Menu ID"
// @Success 200 {object} models.Envelope{data=models.Menu}
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /menu/{menuId} [delete]
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	menu, err := mc.service.DeleteMenu(c.Request.Context(), middleware.OrganizationID(c), c.Param("menuId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewEnvelope(menu, models.MsgDeleted))
}

// GetMenu godoc
// @Summary Get a menu
// @Description Get the flattened view of a menu with its menu-specific prices
// @Tags menus
// @Produce json
// @Param menuId path string true "Menu ID"
// @Success 200 {object} models.Envelope{data=models.MenuView}
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /menu/{menuId} [get]
func (mc *MenuController) GetMenu(c *gin.Context) {
	view, err := mc.service.GetMenu(c.Request.Context(), middleware.OrganizationID(c), c.Param("menuId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewEnvelope(view, ""))
}

// ListMenus godoc
// @Summary List menus
// @Description Get id and name of every menu of the organization
// @Tags menus
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.MenuSummary}
// @Security BearerAuth
// @Router /menu [get]
func (mc *MenuController) ListMenus(c *gin.Context) {
	menus, err := mc.service.ListMenus(c.Request.Context(), middleware.OrganizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewEnvelope(menus, ""))
}
