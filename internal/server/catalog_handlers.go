package server

import (
	"tsudoi/internal/models"
	"tsudoi/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCatalog handles GET /api/catalog
// @Summary Get category tree
// @Description Returns all categories with the channels the caller's role may view. Channels carry their post counts.
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Category
// @Failure 401 {object} models.ErrorResponse
// @Router /catalog [get]
func (s *Server) GetCatalog(c *fiber.Ctx) error {
	categories, err := s.catalogService.ListCatalog(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}
	return c.JSON(categories)
}

// GetCategoryChannels handles GET /api/categories/:id/channels
// @Summary List a category's channels
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {array} models.Channel
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id}/channels [get]
func (s *Server) GetCategoryChannels(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	channels, err := s.catalogService.ListCategoryChannels(c.Context(), categoryID, currentUserID(c))
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}
	return c.JSON(channels)
}

// GetChannel handles GET /api/channels/:id
// @Summary Get a channel
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Channel ID"
// @Success 200 {object} models.Channel
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /channels/{id} [get]
func (s *Server) GetChannel(c *fiber.Ctx) error {
	channelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	channel, err := s.catalogService.GetChannel(c.Context(), channelID, currentUserID(c))
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}
	return c.JSON(channel)
}

// CreateCategory handles POST /api/admin/categories
// @Summary Create a category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string} true "Category name"
// @Success 201 {object} models.Category
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/categories [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.catalogService.CreateCategory(c.Context(), service.CreateCategoryInput{
		ActorID: currentUserID(c),
		Name:    req.Name,
	})
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// RenameCategory handles PUT /api/admin/categories/:id
// @Summary Rename a category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body object{name=string} true "New name"
// @Success 200 {object} models.Category
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/categories/{id} [put]
func (s *Server) RenameCategory(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.catalogService.RenameCategory(c.Context(), service.RenameCategoryInput{
		ActorID:    currentUserID(c),
		CategoryID: categoryID,
		Name:       req.Name,
	})
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}
	return c.JSON(category)
}

// SetCategoryCollapsed handles PUT /api/admin/categories/:id/collapse
// @Summary Set category collapse state
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body object{collapsed=bool} true "Collapse state"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/categories/{id}/collapse [put]
func (s *Server) SetCategoryCollapsed(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Collapsed bool `json:"collapsed"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.catalogService.SetCategoryCollapsed(c.Context(), currentUserID(c), categoryID, req.Collapsed); err != nil {
		return models.RespondWithServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category updated"})
}

// ReorderCategories handles PUT /api/admin/categories/reorder
// @Summary Reorder categories
// @Description Applies the given ID sequence as the new display order in one transaction.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{ordered_ids=[]int} true "Category IDs in display order"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/categories/reorder [put]
func (s *Server) ReorderCategories(c *fiber.Ctx) error {
	var req struct {
		OrderedIDs []uint `json:"ordered_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.catalogService.ReorderCategories(c.Context(), currentUserID(c), req.OrderedIDs); err != nil {
		return models.RespondWithServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Categories reordered"})
}

// DeleteCategory handles DELETE /api/admin/categories/:id
// @Summary Delete an empty category
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/categories/{id} [delete]
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.catalogService.DeleteCategory(c.Context(), currentUserID(c), categoryID); err != nil {
		return models.RespondWithServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

// CreateChannel handles POST /api/admin/categories/:id/channels
// @Summary Create a channel in a category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body object{name=string,description=string,channel_type=string} true "Channel definition"
// @Success 201 {object} models.Channel
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/categories/{id}/channels [post]
func (s *Server) CreateChannel(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ChannelType string `json:"channel_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	channel, err := s.catalogService.CreateChannel(c.Context(), service.CreateChannelInput{
		ActorID:     currentUserID(c),
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		ChannelType: models.ChannelType(req.ChannelType),
	})
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(channel)
}

// UpdateChannel handles PUT /api/admin/channels/:id
// @Summary Update a channel
// @Description Fields left out of the body are not touched.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Channel ID"
// @Param request body object{name=string,description=string,channel_type=string} true "Fields to update"
// @Success 200 {object} models.Channel
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/channels/{id} [put]
func (s *Server) UpdateChannel(c *fiber.Ctx) error {
	channelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		ChannelType *string `json:"channel_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.UpdateChannelInput{
		ActorID:     currentUserID(c),
		ChannelID:   channelID,
		Name:        req.Name,
		Description: req.Description,
	}
	if req.ChannelType != nil {
		channelType := models.ChannelType(*req.ChannelType)
		in.ChannelType = &channelType
	}

	channel, err := s.catalogService.UpdateChannel(c.Context(), in)
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}
	return c.JSON(channel)
}

// ReorderChannels handles PUT /api/admin/categories/:id/channels/reorder
// @Summary Reorder channels within a category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body object{ordered_ids=[]int} true "Channel IDs in display order"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/categories/{id}/channels/reorder [put]
func (s *Server) ReorderChannels(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		OrderedIDs []uint `json:"ordered_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.catalogService.ReorderChannels(c.Context(), currentUserID(c), categoryID, req.OrderedIDs); err != nil {
		return models.RespondWithServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Channels reordered"})
}

// DeleteChannel handles DELETE /api/admin/channels/:id
// @Summary Delete a channel and its posts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Channel ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/channels/{id} [delete]
func (s *Server) DeleteChannel(c *fiber.Ctx) error {
	channelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.catalogService.DeleteChannel(c.Context(), currentUserID(c), channelID); err != nil {
		return models.RespondWithServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Channel deleted"})
}
