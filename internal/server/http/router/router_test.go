package router

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/padudon-bit/IndieBook-project/internal/app"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
	"github.com/padudon-bit/IndieBook-project/internal/server/http/dto"
	"github.com/padudon-bit/IndieBook-project/internal/server/http/handlers"
	"github.com/padudon-bit/IndieBook-project/internal/test/storefront"
)

var _ handlers.StoreFacade = (*app.StoreFacade)(nil)

func serve(t *testing.T, engine http.Handler, req *http.Request, token string) *httptest.ResponseRecorder {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func fileRequest(t *testing.T, path, field, filename, contentType string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", resp.Body.String(), err)
	}
}

func expect(t *testing.T, resp *httptest.ResponseRecorder, status int, step string) {
	t.Helper()
	if resp.Code != status {
		t.Fatalf("%s: expected %d, got %d: %s", step, status, resp.Code, resp.Body.String())
	}
}

func TestStorefrontFlow(t *testing.T) {
	f := storefront.New(t)
	engine := Setup(f.Facade, f.Config, f.Logger)

	expect(t, serve(t, engine, httptest.NewRequest(http.MethodGet, "/health", nil), ""), http.StatusOK, "health")

	resp := serve(t, engine, fileRequest(t, "/api/upload", "file", "dune.pdf", "application/pdf", storefront.PDF, nil), storefront.AdminToken)
	expect(t, resp, http.StatusOK, "upload")
	var upload dto.UploadResponse
	decode(t, resp, &upload)

	resp = serve(t, engine, fileRequest(t, "/api/admin/covers", "file", "dune.png", "image/png", storefront.PNG, nil), storefront.AdminToken)
	expect(t, resp, http.StatusOK, "cover")
	var cover dto.CoverUploadResponse
	decode(t, resp, &cover)

	resp = serve(t, engine, jsonRequest(t, http.MethodPost, "/api/admin/books", map[string]any{
		"title": "Dune", "author": "Frank Herbert", "description": "Spice", "price": 299,
		"category": "sci-fi", "file_key": upload.FileURL, "cover_key": cover.Key,
	}), storefront.AdminToken)
	expect(t, resp, http.StatusCreated, "create book")
	var book dto.BookResponse
	decode(t, resp, &book)

	resp = serve(t, engine, jsonRequest(t, http.MethodPost, "/api/user/register", dto.RegisterRequest{Email: storefront.BuyerEmail, Password: "secret1", Name: "Reader"}), "")
	expect(t, resp, http.StatusOK, "register")

	resp = serve(t, engine, fileRequest(t, "/api/orders", "slip", "slip.png", "image/png", storefront.PNG, map[string]string{
		"name": "Reader", "phone": "0812345678", "total": "299", "items": `["` + book.ID + `"]`,
	}), storefront.BuyerToken)
	expect(t, resp, http.StatusCreated, "checkout")
	var order dto.OrderResponse
	decode(t, resp, &order)

	expect(t, serve(t, engine, httptest.NewRequest(http.MethodGet, "/api/library/"+book.ID+"/file", nil), storefront.BuyerToken), http.StatusForbidden, "read before approval")
	expect(t, serve(t, engine, httptest.NewRequest(http.MethodPost, "/api/admin/orders/"+order.ID+"/approve", nil), storefront.BuyerToken), http.StatusForbidden, "buyer approving")
	expect(t, serve(t, engine, httptest.NewRequest(http.MethodPost, "/api/admin/orders/"+order.ID+"/approve", nil), storefront.AdminToken), http.StatusOK, "approve")
	expect(t, serve(t, engine, httptest.NewRequest(http.MethodPost, "/api/admin/orders/"+order.ID+"/approve", nil), storefront.AdminToken), http.StatusConflict, "second approve")

	resp = serve(t, engine, httptest.NewRequest(http.MethodGet, "/api/library/"+book.ID+"/file", nil), storefront.BuyerToken)
	expect(t, resp, http.StatusOK, "read after approval")
	if !bytes.Equal(resp.Body.Bytes(), storefront.PDF) {
		t.Fatal("unexpected book content")
	}
	if got := f.Publisher.Types(); len(got) != 2 {
		t.Fatalf("expected created and approved events, got %v", got)
	}
}

func TestRouteGuards(t *testing.T) {
	f := storefront.New(t)
	engine := Setup(f.Facade, f.Config, f.Logger)

	cases := []struct {
		method, path, token string
		status              int
	}{
		{http.MethodGet, "/api/books", "", http.StatusOK},
		{http.MethodGet, "/api/hello", "", http.StatusOK},
		{http.MethodGet, "/api/library", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/library", storefront.AdminToken, http.StatusForbidden},
		{http.MethodGet, "/api/user/orders", storefront.BuyerToken, http.StatusOK},
		{http.MethodGet, "/api/admin/orders", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/orders", "garbage", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/orders", storefront.AdminToken, http.StatusOK},
		{http.MethodPost, "/api/upload", storefront.BuyerToken, http.StatusForbidden},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path+" "+tc.token, func(t *testing.T) {
			resp := serve(t, engine, httptest.NewRequest(tc.method, tc.path, nil), tc.token)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	f := storefront.New(t)
	engine := Setup(f.Facade, f.Config, f.Logger)

	req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := serve(t, engine, req, "")

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestCompression(t *testing.T) {
	f := storefront.New(t)
	engine := Setup(f.Facade, f.Config, f.Logger)
	f.Store.BookRepo.Seed(model.Book{Title: "Long", Description: strings.Repeat("spice ", 500), Price: decimal.NewFromInt(10)})

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := serve(t, engine, req, "")
	if resp.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, got headers %v", resp.Header())
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte(`{"ping":"pong"}`))
	_ = gz.Close()
	req = httptest.NewRequest(http.MethodPost, "/api/echo", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	resp = serve(t, engine, req, "")
	expect(t, resp, http.StatusOK, "gzip echo")
	if !strings.Contains(resp.Body.String(), "pong") {
		t.Fatalf("unexpected echo %s", resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	expect(t, serve(t, engine, req, ""), http.StatusBadRequest, "malformed gzip")
}

func TestInternalErrorsAreLogged(t *testing.T) {
	f := storefront.New(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	engine := Setup(f.Facade, f.Config, logger)

	f.Store.BookRepo.Err = fmt.Errorf("connection reset")
	resp := serve(t, engine, httptest.NewRequest(http.MethodGet, "/api/books", nil), "")
	expect(t, resp, http.StatusInternalServerError, "list books")
	if strings.Contains(resp.Body.String(), "connection reset") {
		t.Fatal("error detail leaked to client")
	}
	if !strings.Contains(logs.String(), "connection reset") || !strings.Contains(logs.String(), `"level":"ERROR"`) {
		t.Fatalf("expected error log entry, got %s", logs.String())
	}
}
