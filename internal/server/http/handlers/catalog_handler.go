package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
	"github.com/padudon-bit/IndieBook-project/internal/server/http/dto"
)

// CatalogHandler serves the storefront catalog and admin catalog management.
type CatalogHandler struct {
	facade    CatalogFacade
	maxUpload int64
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade, maxUpload int64) *CatalogHandler {
	return &CatalogHandler{facade: facade, maxUpload: maxUpload}
}

// List handles GET /api/books.
func (h *CatalogHandler) List(c *gin.Context) {
	books, err := h.facade.Books(c.Request.Context())
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	response := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		response = append(response, toBookResponse(b))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/books/:id.
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	book, err := h.facade.Book(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	c.JSON(http.StatusOK, toBookResponse(*book))
}

// Cover handles GET /api/covers/*key.
func (h *CatalogHandler) Cover(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	rc, info, err := h.facade.Cover(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	streamObject(c, rc, info, map[string]string{"Cache-Control": "public, max-age=86400"})
}

// Upload handles POST /api/upload.
func (h *CatalogHandler) Upload(c *gin.Context) {
	limitBody(c, h.maxUpload)
	up, f, err := formFile(c, "file")
	if err != nil {
		respondUploadError(c, err, "Failed to upload file")
		return
	}
	if f != nil {
		defer f.Close()
	}

	stored, err := h.facade.UploadBookFile(c.Request.Context(), CurrentAdmin(c), up)
	if err != nil {
		respondUploadError(c, err, "Failed to upload file")
		return
	}
	c.JSON(http.StatusOK, dto.UploadResponse{
		Success:  true,
		BookID:   stored.ID,
		Filename: stored.Filename,
		FileURL:  stored.Key,
		Size:     stored.Size,
	})
}

// UploadCover handles POST /api/admin/covers.
func (h *CatalogHandler) UploadCover(c *gin.Context) {
	limitBody(c, h.maxUpload)
	up, f, err := formFile(c, "file")
	if err != nil {
		respondUploadError(c, err, internalErrorMessage)
		return
	}
	if f != nil {
		defer f.Close()
	}

	stored, err := h.facade.UploadCover(c.Request.Context(), CurrentAdmin(c), up)
	if err != nil {
		respondUploadError(c, err, internalErrorMessage)
		return
	}
	c.JSON(http.StatusOK, dto.CoverUploadResponse{
		Key:      stored.Key,
		URL:      coverURL(stored.Key),
		Filename: stored.Filename,
		Size:     stored.Size,
	})
}

// Create handles POST /api/admin/books.
func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	book, err := h.facade.AddBook(c.Request.Context(), CurrentAdmin(c), model.NewBook{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		FileKey:     req.FileKey,
		CoverKey:    req.CoverKey,
	})
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	c.JSON(http.StatusCreated, toBookResponse(*book))
}

// Delete handles DELETE /api/admin/books/:id.
func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.DeleteBook(c.Request.Context(), CurrentAdmin(c), id); err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	c.Status(http.StatusNoContent)
}

func toBookResponse(b model.Book) dto.BookResponse {
	return dto.BookResponse{
		ID:          b.ID.String(),
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Price:       b.Price.StringFixed(2),
		Category:    b.Category,
		CoverKey:    b.CoverKey,
		CoverURL:    coverURL(b.CoverKey),
		UploadedAt:  b.UploadedAt,
	}
}
