package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookResponse is a catalog entry as shown on the storefront.
type BookResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	CoverKey    string    `json:"cover_key,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// CreateBookRequest adds a book whose file and cover were uploaded beforehand.
type CreateBookRequest struct {
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	FileKey     string          `json:"file_key"`
	CoverKey    string          `json:"cover_key"`
}

// UploadResponse mirrors the PDF upload contract.
type UploadResponse struct {
	Success  bool   `json:"success"`
	BookID   string `json:"bookId"`
	Filename string `json:"filename"`
	FileURL  string `json:"fileUrl"`
	Size     int64  `json:"size"`
}

// CoverUploadResponse describes a stored cover image.
type CoverUploadResponse struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}
