package cover

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newStore(t *testing.T, objects map[string]bool) (*httptest.Server, Repo) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead, http.MethodGet:
			if objects[r.URL.Path] {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPost:
			objects[r.URL.Path] = true
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, NewHTTP(srv.URL, "covers")
}

func TestResolve_IDSchemeFirst(t *testing.T) {
	_, repo := newStore(t, map[string]bool{
		"/covers/book-7.png":             true,
		"/covers/isbn-9780132350884.jpg": true,
	})

	url, err := repo.Resolve(context.Background(), 7, "978-0132350884")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.HasSuffix(url, "/covers/book-7.png") {
		t.Fatalf("expected id-scheme png, got %s", url)
	}
}

func TestResolve_FallsBackToISBN(t *testing.T) {
	_, repo := newStore(t, map[string]bool{
		"/covers/isbn-9780132350884.webp": true,
	})

	url, err := repo.Resolve(context.Background(), 7, "978-0132350884")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.HasSuffix(url, "/covers/isbn-9780132350884.webp") {
		t.Fatalf("expected isbn-scheme webp, got %s", url)
	}
}

func TestResolve_NoCover(t *testing.T) {
	_, repo := newStore(t, map[string]bool{})

	_, err := repo.Resolve(context.Background(), 7, "")
	if !errors.Is(err, ErrNoCover) {
		t.Fatalf("expected ErrNoCover, got %v", err)
	}
}

func TestUpload(t *testing.T) {
	objects := map[string]bool{}
	_, repo := newStore(t, objects)

	url, err := repo.Upload(context.Background(), 7, ".JPG", "image/jpeg", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasSuffix(url, "/covers/book-7.jpg") {
		t.Fatalf("unexpected url %s", url)
	}
	if !objects["/covers/book-7.jpg"] {
		t.Fatal("object was not stored")
	}

	if _, err := repo.Upload(context.Background(), 7, "gif", "image/gif", strings.NewReader("img")); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
