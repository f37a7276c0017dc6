package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devnovate/internal/models"
	"devnovate/internal/services"
)

func ingest(t *testing.T, repo *mockBlogRepo, secret, method, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewIngestionHandler(services.NewIngestionService(repo), secret)
	req := httptest.NewRequest(method, "/api/functions/receive-blog", strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.Handle(rr, req)
	return rr
}

func TestIngestHappyPath(t *testing.T) {
	repo := &mockBlogRepo{}

	body := `{"title":"My Post","content_html":"<p>Hi</p>","author_id":"u1"}`
	rr := ingest(t, repo, "", http.MethodPost, body, nil)

	if rr.Code != http.StatusCreated {
		t.Fatalf("ожидался 201, получен %d: %s", rr.Code, rr.Body.String())
	}

	var resp ingestSuccess
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("невалидный JSON в ответе: %v", err)
	}
	if !resp.Success {
		t.Fatal("ожидался success:true")
	}
	if resp.Message != "Blog post created successfully" {
		t.Fatalf("неожиданное сообщение: %q", resp.Message)
	}
	if resp.Blog == nil || resp.Blog.Slug == "" {
		t.Fatalf("блог без слага: %+v", resp.Blog)
	}
	if resp.Blog.Status != models.StatusPublished {
		t.Fatalf("ожидался статус published, получен %q", resp.Blog.Status)
	}
	if repo.inserts != 1 {
		t.Fatalf("ожидалась 1 вставка, выполнено %d", repo.inserts)
	}
}

func TestIngestMissingFieldsWire(t *testing.T) {
	rr := ingest(t, &mockBlogRepo{}, "", http.MethodPost, `{"title":"only title"}`, nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("ожидался 400, получен %d", rr.Code)
	}
	want := "Missing required fields: title, content_html, author_id"
	if !strings.Contains(rr.Body.String(), want) {
		t.Fatalf("ожидался текст %q, тело: %s", want, rr.Body.String())
	}
}

func TestIngestInvalidJSON(t *testing.T) {
	repo := &mockBlogRepo{}
	rr := ingest(t, repo, "", http.MethodPost, `{not json`, nil)

	// Битое тело не выделяется отдельной ошибкой — общий 500.
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("ожидался 500, получен %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Internal server error") {
		t.Fatalf("неожиданное тело: %s", rr.Body.String())
	}
	if repo.inserts != 0 {
		t.Fatal("вставка не должна была выполняться")
	}
}

func TestIngestWebhookSecret(t *testing.T) {
	repo := &mockBlogRepo{}
	body := `{"title":"t","content_html":"<p>x</p>","author_id":"u1"}`

	// Без секрета — отказ.
	rr := ingest(t, repo, "s3cret", http.MethodPost, body, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("ожидался 401, получен %d", rr.Code)
	}
	if repo.inserts != 0 {
		t.Fatal("вставка не должна была выполняться")
	}

	// С верным секретом — проходит.
	rr = ingest(t, repo, "s3cret", http.MethodPost, body,
		map[string]string{"X-Webhook-Secret": "s3cret"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("ожидался 201, получен %d", rr.Code)
	}
}

func TestIngestStoreFailureWire(t *testing.T) {
	body := `{"title":"t","content_html":"<p>x</p>","author_id":"u1"}`
	rr := ingest(t, &mockBlogRepo{failAll: true}, "", http.MethodPost, body, nil)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("ожидался 500, получен %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Failed to create blog post") {
		t.Fatalf("неожиданное тело: %s", rr.Body.String())
	}
}

func TestIngestDescribe(t *testing.T) {
	rr := ingest(t, &mockBlogRepo{}, "", http.MethodGet, ``, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", rr.Code)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("невалидный JSON в ответе: %v", err)
	}
	if _, ok := doc["required_fields"]; !ok {
		t.Fatal("в описании нет required_fields")
	}
	if doc["endpoint"] != "/api/functions/receive-blog" {
		t.Fatalf("неожиданный endpoint: %v", doc["endpoint"])
	}
}

func TestIngestMethodNotAllowed(t *testing.T) {
	rr := ingest(t, &mockBlogRepo{}, "", http.MethodDelete, ``, nil)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("ожидался 405, получен %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Method not allowed") {
		t.Fatalf("неожиданное тело: %s", rr.Body.String())
	}
}
