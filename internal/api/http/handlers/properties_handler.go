package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/estatehub/estate-service/internal/api/dto"
	"github.com/estatehub/estate-service/internal/service"
)

const imagesField = "images"

// PropertiesHandler serves listing endpoints and image management.
type PropertiesHandler struct {
	service *service.PropertyService
}

// NewPropertiesHandler constructs handler.
func NewPropertiesHandler(propertyService *service.PropertyService) *PropertiesHandler {
	return &PropertiesHandler{service: propertyService}
}

// List GET /api/properties.
func (h *PropertiesHandler) List(c *fiber.Ctx) error {
	input, err := parsePropertyQuery(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.UserContext(), input)
	if err != nil {
		return err
	}
	items := dto.NewPropertyResponses(page.Properties)
	return c.JSON(dto.PropertyListResponse{
		Properties: items,
		Count:      len(items),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
}

// Get GET /api/properties/:id.
func (h *PropertiesHandler) Get(c *fiber.Ctx) error {
	property, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"property": dto.NewPropertyResponse(property)})
}

// ListMine GET /api/properties/agent/my-properties.
func (h *PropertiesHandler) ListMine(c *fiber.Ctx) error {
	properties, err := h.service.ListMine(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	items := dto.NewPropertyResponses(properties)
	return c.JSON(fiber.Map{"properties": items, "count": len(items)})
}

// Create POST /api/properties.
func (h *PropertiesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePropertyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	property, err := h.service.Create(c.UserContext(), identity(c), service.CreatePropertyInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		City:         req.City,
		State:        req.State,
		Price:        req.Price,
		Beds:         req.Beds,
		Baths:        req.Baths,
		Sqft:         req.Sqft,
		PropertyType: req.PropertyType,
		YearBuilt:    req.YearBuilt,
		Status:       req.Status,
		Featured:     req.Featured,
		Amenities:    req.Amenities,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Address:      req.Address,
		ZipCode:      req.ZipCode,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":  "Property created successfully",
		"property": dto.NewPropertyResponse(property),
	})
}

// Update PUT /api/properties/:id. An empty body reaches the service as an
// empty patch so ownership is still decided first.
func (h *PropertiesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdatePropertyRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	property, err := h.service.Update(c.UserContext(), identity(c), c.Params("id"), service.UpdatePropertyInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		City:         req.City,
		State:        req.State,
		Price:        req.Price,
		Beds:         req.Beds,
		Baths:        req.Baths,
		Sqft:         req.Sqft,
		PropertyType: req.PropertyType,
		YearBuilt:    req.YearBuilt,
		Status:       req.Status,
		Featured:     req.Featured,
		Amenities:    req.Amenities,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Address:      req.Address,
		ZipCode:      req.ZipCode,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":  "Property updated successfully",
		"property": dto.NewPropertyResponse(property),
	})
}

// Delete DELETE /api/properties/:id.
func (h *PropertiesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), identity(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Property deleted successfully"})
}

// UploadImages POST /api/properties/:id/images (multipart field "images").
func (h *PropertiesHandler) UploadImages(c *fiber.Ctx) error {
	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		files = form.File[imagesField]
	}
	property, count, err := h.service.UploadImages(c.UserContext(), identity(c), c.Params("id"), files)
	if err != nil {
		return err
	}
	return c.JSON(dto.ImagesResponse{
		Message:       "Images uploaded successfully",
		Images:        property.Images,
		UploadedCount: &count,
	})
}

// RemoveImage DELETE /api/properties/:id/images with body {"imageUrl": "..."}.
func (h *PropertiesHandler) RemoveImage(c *fiber.Ctx) error {
	var req dto.RemoveImageRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	property, err := h.service.RemoveImage(c.UserContext(), identity(c), c.Params("id"), service.RemoveImageInput{ImageURL: req.ImageURL})
	if err != nil {
		return err
	}
	return c.JSON(dto.ImagesResponse{
		Message: "Image deleted successfully",
		Images:  property.Images,
	})
}

func parsePropertyQuery(c *fiber.Ctx) (service.PropertyListInput, error) {
	input := service.PropertyListInput{
		City:         queryString(c, "city"),
		State:        queryString(c, "state"),
		PropertyType: queryString(c, "propertyType"),
		Status:       queryString(c, "status"),
	}
	var err error
	if input.MinPrice, err = queryFloat(c, "minPrice"); err != nil {
		return input, err
	}
	if input.MaxPrice, err = queryFloat(c, "maxPrice"); err != nil {
		return input, err
	}
	if input.MinBeds, err = queryInt(c, "minBeds"); err != nil {
		return input, err
	}
	if input.Featured, err = queryBool(c, "featured"); err != nil {
		return input, err
	}
	if input.Limit, err = queryInt(c, "limit"); err != nil {
		return input, err
	}
	if input.Offset, err = queryInt(c, "offset"); err != nil {
		return input, err
	}
	return input, nil
}
