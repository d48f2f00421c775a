package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	pkgAuth "github.com/padudon-bit/IndieBook-project/internal/pkg/auth"
	"github.com/padudon-bit/IndieBook-project/internal/server/http/dto"
	"github.com/padudon-bit/IndieBook-project/internal/server/http/middleware"
	"github.com/padudon-bit/IndieBook-project/internal/storage/blob"
	"github.com/padudon-bit/IndieBook-project/internal/usecase"
)

const internalErrorMessage = "internal error"

// CurrentPrincipal extracts the authenticated buyer from context.
func CurrentPrincipal(c *gin.Context) pkgAuth.Principal {
	val, ok := c.Get(middleware.PrincipalContextKey)
	if !ok {
		return pkgAuth.Principal{}
	}
	p, _ := val.(pkgAuth.Principal)
	return p
}

// CurrentAdmin extracts the verified admin session from context.
func CurrentAdmin(c *gin.Context) usecase.AdminSession {
	val, ok := c.Get(middleware.AdminSessionContextKey)
	if !ok {
		return usecase.AdminSession{}
	}
	s, _ := val.(usecase.AdminSession)
	return s
}

// respondError maps domain errors to status codes. Unknown errors are attached
// to the context for the request logger and reported as internalMessage.
func respondError(c *gin.Context, err error, internalMessage string) {
	var verr *domainErrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, domainErrors.ErrValidation), errors.Is(err, domainErrors.ErrDuplicateCartItem):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "already exists"})
	case errors.Is(err, domainErrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "order is no longer pending"})
	case errors.Is(err, domainErrors.ErrInvalidCredentials), errors.Is(err, domainErrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, domainErrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "forbidden"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: internalMessage})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return uuid.Nil, false
	}
	return id, true
}

// formFile opens a multipart file field. A nil upload body with nil error means the field was absent.
func formFile(c *gin.Context, field string) (usecase.Upload, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return usecase.Upload{}, nil, err
		}
		return usecase.Upload{}, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return usecase.Upload{}, nil, err
	}
	return usecase.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

func limitBody(c *gin.Context, limit int64) {
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
}

func respondUploadError(c *gin.Context, err error, internalMessage string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "file too large"})
		return
	}
	respondError(c, err, internalMessage)
}

// streamObject copies a stored object to the response.
func streamObject(c *gin.Context, rc io.ReadCloser, info blob.ObjectInfo, headers map[string]string) {
	defer rc.Close()
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, headers)
}

func privateHeaders(filename string) map[string]string {
	return map[string]string{
		"Cache-Control":       "private, no-store",
		"Content-Disposition": "inline; filename=" + strconv.Quote(blob.SanitizeFilename(filename)),
	}
}

func coverURL(key string) string {
	if key == "" {
		return ""
	}
	return "/api/covers/" + key
}
