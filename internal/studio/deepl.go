package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// DeepLConfig configures the translation endpoint and HTTP behavior.
type DeepLConfig struct {
	APIKey     string
	URL        string
	HTTPClient *http.Client
}

type deepLTranslator struct {
	cfg DeepLConfig
}

// NewDeepLTranslator builds a translator backed by the DeepL API.
func NewDeepLTranslator(cfg DeepLConfig) Translator {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.URL) == "" {
		cfg.URL = "https://api-free.deepl.com/v2/translate"
	}
	return &deepLTranslator{cfg: cfg}
}

func (tr *deepLTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	apiKey := strings.TrimSpace(tr.cfg.APIKey)
	if apiKey == "" {
		return "", ErrNoCredential
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text to translate is required")
	}
	lang, err := normalizeTargetLang(targetLang)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", lang)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tr.cfg.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+apiKey)

	res, err := tr.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return "", fmt.Errorf("read translate error body: %w", err)
		}
		return "", fmt.Errorf("translate request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	for _, translation := range payload.Translations {
		if translated := strings.TrimSpace(translation.Text); translated != "" {
			return translated, nil
		}
	}
	return "", fmt.Errorf("translate response missing translations")
}

// normalizeTargetLang turns a BCP 47 tag into the upper-case form the
// translation API expects, e.g. "pt-br" into "PT-BR".
func normalizeTargetLang(targetLang string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(targetLang))
	if err != nil {
		return "", fmt.Errorf("parse target language %q: %w", targetLang, err)
	}
	return strings.ToUpper(tag.String()), nil
}
