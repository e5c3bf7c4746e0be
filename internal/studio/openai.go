package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/freightpress/freightpress/internal/storage"
)

// OpenAIConfig configures the chat-completions endpoint and HTTP behavior.
type OpenAIConfig struct {
	APIKey     string
	URL        string
	Model      string
	HTTPClient *http.Client
}

type openAITextGenerator struct {
	cfg OpenAIConfig
}

// NewOpenAITextGenerator builds a text generator backed by the OpenAI
// chat-completions API.
func NewOpenAITextGenerator(cfg OpenAIConfig) TextGenerator {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.URL) == "" {
		cfg.URL = "https://api.openai.com/v1/chat/completions"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &openAITextGenerator{cfg: cfg}
}

func (g *openAITextGenerator) GenerateArticle(ctx context.Context, req ArticleRequest) (ArticleDraft, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return ArticleDraft{}, fmt.Errorf("article topic is required")
	}
	content, err := g.chat(ctx, articleSystemPrompt, articlePrompt(req))
	if err != nil {
		return ArticleDraft{}, err
	}
	title, body := splitDraft(content)
	if title == "" {
		title = topic
	}
	if body == "" {
		return ArticleDraft{}, fmt.Errorf("chat response missing article body")
	}
	return ArticleDraft{Title: title, Body: body}, nil
}

func (g *openAITextGenerator) GenerateSocialPost(ctx context.Context, req SocialRequest) (SocialDraft, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return SocialDraft{}, fmt.Errorf("post topic is required")
	}
	if req.Platform == "" {
		return SocialDraft{}, fmt.Errorf("post platform is required")
	}
	content, err := g.chat(ctx, socialSystemPrompt, socialPrompt(req))
	if err != nil {
		return SocialDraft{}, err
	}
	return SocialDraft{Title: topic, Body: content}, nil
}

func (g *openAITextGenerator) chat(ctx context.Context, system, user string) (string, error) {
	apiKey := strings.TrimSpace(g.cfg.APIKey)
	if apiKey == "" {
		return "", ErrNoCredential
	}

	requestBody, err := json.Marshal(map[string]any{
		"model": g.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Credential material is sent only as an Authorization header and is
	// never echoed in errors or response payloads.
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return "", fmt.Errorf("read chat error body: %w", err)
		}
		return "", fmt.Errorf("chat request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	for _, choice := range payload.Choices {
		if content := strings.TrimSpace(choice.Message.Content); content != "" {
			return content, nil
		}
	}
	return "", fmt.Errorf("chat response missing content")
}

const (
	articleSystemPrompt = "You are a content writer producing publish-ready drafts. Return the title on the first line, then a blank line, then the article body."
	socialSystemPrompt  = "You are a social media writer. Return only the post text, with no preamble."
)

func articlePrompt(req ArticleRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s, %s article about %s.", lengthHint(req.Length), styleHint(req.Style), strings.TrimSpace(req.Topic))
	if focus := strings.TrimSpace(req.Focus); focus != "" {
		fmt.Fprintf(&b, "\nFocus on: %s.", focus)
	}
	if keywords := joinClean(req.Keywords); keywords != "" {
		fmt.Fprintf(&b, "\nWork in these keywords: %s.", keywords)
	}
	if req.Depth == storage.ResearchDepthDeep {
		b.WriteString("\nCover the subject in depth, including context and caveats.")
	}
	if geo := strings.TrimSpace(req.GeoFocus); geo != "" {
		fmt.Fprintf(&b, "\nWrite for readers in %s.", geo)
	}
	appendRules(&b, req.Rules)
	return b.String()
}

func socialPrompt(req SocialRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s %s post about %s.", styleHint(req.Style), req.Platform, strings.TrimSpace(req.Topic))
	if focus := strings.TrimSpace(req.Focus); focus != "" {
		fmt.Fprintf(&b, "\nFocus on: %s.", focus)
	}
	if keywords := joinClean(req.Keywords); keywords != "" {
		fmt.Fprintf(&b, "\nWork in these keywords: %s.", keywords)
	}
	appendRules(&b, req.Rules)
	return b.String()
}

func joinClean(values []string) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, ", ")
}

func appendRules(b *strings.Builder, rules []string) {
	wrote := false
	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		if !wrote {
			b.WriteString("\nFollow these optimization rules:")
			wrote = true
		}
		fmt.Fprintf(b, "\n- %s", rule)
	}
}

func lengthHint(length storage.ArticleLength) string {
	switch length {
	case storage.ArticleLengthShort:
		return "short (roughly 400 words)"
	case storage.ArticleLengthLong:
		return "long-form (roughly 1500 words)"
	default:
		return "medium-length (roughly 800 words)"
	}
}

func styleHint(style storage.ArticleStyle) string {
	switch style {
	case storage.ArticleStyleConversational:
		return "conversational"
	case storage.ArticleStyleTechnical:
		return "technical"
	default:
		return "informative"
	}
}

// splitDraft separates the title line from the body. Leading markdown
// heading markers on the title line are stripped.
func splitDraft(content string) (string, string) {
	content = strings.TrimSpace(content)
	title, body, _ := strings.Cut(content, "\n")
	title = strings.TrimSpace(strings.TrimLeft(title, "# "))
	return title, strings.TrimSpace(body)
}
