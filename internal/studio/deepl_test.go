package studio

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestNewDeepLTranslatorDefaults(t *testing.T) {
	tr := NewDeepLTranslator(DeepLConfig{})
	typed, ok := tr.(*deepLTranslator)
	if !ok {
		t.Fatalf("translator type = %T, want *deepLTranslator", tr)
	}
	if typed.cfg.HTTPClient == nil {
		t.Fatal("expected non-nil HTTP client")
	}
	if typed.cfg.URL != "https://api-free.deepl.com/v2/translate" {
		t.Fatalf("url = %q", typed.cfg.URL)
	}
}

func TestDeepLTranslateRequiresCredential(t *testing.T) {
	tr := &deepLTranslator{cfg: DeepLConfig{
		URL:        "https://provider.example.com/v2/translate",
		HTTPClient: noTrafficClient(t),
	}}

	_, err := tr.Translate(context.Background(), "hello", "de")
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("error = %v, want ErrNoCredential", err)
	}
}

func TestDeepLTranslateValidation(t *testing.T) {
	tr := &deepLTranslator{cfg: DeepLConfig{
		APIKey:     "dk-1",
		URL:        "https://provider.example.com/v2/translate",
		HTTPClient: noTrafficClient(t),
	}}

	if _, err := tr.Translate(context.Background(), "   ", "de"); err == nil {
		t.Fatal("expected error for blank text")
	}
	if _, err := tr.Translate(context.Background(), "hello", "not a language"); err == nil {
		t.Fatal("expected error for malformed language tag")
	}
}

func TestDeepLTranslateSuccess(t *testing.T) {
	tr := &deepLTranslator{cfg: DeepLConfig{
		APIKey: "dk-1",
		URL:    "https://provider.example.com/v2/translate",
		HTTPClient: &http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				if req.Header.Get("Authorization") != "DeepL-Auth-Key dk-1" {
					t.Fatalf("authorization = %q", req.Header.Get("Authorization"))
				}
				if ct := req.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
					t.Fatalf("content type = %q", ct)
				}
				body, err := io.ReadAll(req.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				form, err := url.ParseQuery(string(body))
				if err != nil {
					t.Fatalf("parse form: %v", err)
				}
				if form.Get("text") != "hello" {
					t.Fatalf("text = %q", form.Get("text"))
				}
				if form.Get("target_lang") != "PT-BR" {
					t.Fatalf("target_lang = %q", form.Get("target_lang"))
				}
				return response(http.StatusOK, `{"translations":[{"text":"olá"}]}`), nil
			}),
		},
	}}

	got, err := tr.Translate(context.Background(), "hello", "pt-br")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "olá" {
		t.Fatalf("translation = %q", got)
	}
}

func TestDeepLTranslateNon2xx(t *testing.T) {
	tr := &deepLTranslator{cfg: DeepLConfig{
		APIKey: "dk-1",
		URL:    "https://provider.example.com/v2/translate",
		HTTPClient: &http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				return response(http.StatusForbidden, "quota exceeded"), nil
			}),
		},
	}}

	_, err := tr.Translate(context.Background(), "hello", "de")
	if err == nil || !strings.Contains(err.Error(), "status 403") {
		t.Fatalf("error = %v, want status 403", err)
	}
}

func TestDeepLTranslateEmptyResponse(t *testing.T) {
	tr := &deepLTranslator{cfg: DeepLConfig{
		APIKey: "dk-1",
		URL:    "https://provider.example.com/v2/translate",
		HTTPClient: &http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				return response(http.StatusOK, `{"translations":[]}`), nil
			}),
		},
	}}

	if _, err := tr.Translate(context.Background(), "hello", "de"); err == nil {
		t.Fatal("expected error for empty translations")
	}
}

func TestNormalizeTargetLang(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "en", want: "EN"},
		{in: " de ", want: "DE"},
		{in: "pt-br", want: "PT-BR"},
		{in: "PT-BR", want: "PT-BR"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeTargetLang(tt.in)
			if err != nil {
				t.Fatalf("normalize %q: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("normalize %q = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if _, err := normalizeTargetLang("!!"); err == nil {
		t.Fatal("expected error for malformed tag")
	}
}
