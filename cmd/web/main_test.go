package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRenderPage(t *testing.T) {
	page := renderPage("play.example.com", "22")
	if !strings.Contains(page, "ssh -p 22 -t play@play.example.com") {
		t.Error("connection command not filled in")
	}
	if strings.Contains(page, "{{") {
		t.Error("unreplaced placeholder left in page")
	}

	page = renderPage("<script>", "22")
	if strings.Contains(page, "<script>") {
		t.Error("host was not escaped")
	}
}

func TestMux(t *testing.T) {
	srv := httptest.NewServer(newMux("hello", log.New(io.Discard)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "hello" {
		t.Errorf("GET / = %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("GET /healthz = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /missing = %d", resp.StatusCode)
	}
}
