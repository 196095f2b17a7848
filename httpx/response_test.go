package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"client.email": "invalid_email"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}
	want := `{"error":"validation_failed","details":{"client.email":"invalid_email"}}`
	if got := w.Body.String(); got != want {
		t.Fatalf("body %s", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Anna","extra":1}`))
	if err := DecodeJSON(r, &dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dst.Name != "Anna" {
		t.Fatalf("got %q", dst.Name)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(r, &dst); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	if err := DecodeJSON(r, &dst); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestPDFAttachment(t *testing.T) {
	w := httptest.NewRecorder()
	PDF(w, "faktura_anna_1001.pdf", []byte("%PDF-1.4"), true)
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename=faktura_anna_1001.pdf` {
		t.Fatalf("disposition %q", got)
	}
	if w.Header().Get("Content-Length") != "8" {
		t.Fatalf("length %q", w.Header().Get("Content-Length"))
	}
}
