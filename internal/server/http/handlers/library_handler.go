package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/padudon-bit/IndieBook-project/internal/server/http/dto"
)

// LibraryHandler serves the buyer's purchased books.
type LibraryHandler struct {
	facade LibraryFacade
}

// NewLibraryHandler constructs LibraryHandler.
func NewLibraryHandler(facade LibraryFacade) *LibraryHandler {
	return &LibraryHandler{facade: facade}
}

// List handles GET /api/library.
func (h *LibraryHandler) List(c *gin.Context) {
	owned, err := h.facade.Library(c.Request.Context(), CurrentPrincipal(c).Email)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	response := make([]dto.PurchasedBookResponse, 0, len(owned))
	for _, pb := range owned {
		response = append(response, dto.PurchasedBookResponse{
			Book:        toBookResponse(pb.Book),
			OrderID:     pb.OrderID.String(),
			PurchasedAt: pb.PurchasedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Read handles GET /api/library/:bookId/file.
func (h *LibraryHandler) Read(c *gin.Context) {
	id, ok := pathUUID(c, "bookId")
	if !ok {
		return
	}
	rc, info, book, err := h.facade.OpenBook(c.Request.Context(), CurrentPrincipal(c).Email, id)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	streamObject(c, rc, info, privateHeaders(book.Title+".pdf"))
}
