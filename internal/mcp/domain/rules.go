package domain

import (
	"context"
	"fmt"

	"github.com/freightpress/freightpress/internal/platform/timeouts"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SEORuleEntry represents one stored optimization rule in tool results.
type SEORuleEntry struct {
	ID         int64  `json:"id" jsonschema:"rule identifier"`
	Platform   string `json:"platform" jsonschema:"platform the rule applies to (article, linkedin, x, instagram)"`
	Name       string `json:"name" jsonschema:"rule name"`
	Rule       string `json:"rule" jsonschema:"rule text handed to the composer"`
	Importance int    `json:"importance" jsonschema:"ranking weight, highest first"`
	Category   string `json:"category,omitempty" jsonschema:"free-form rule category"`
	Active     bool   `json:"active" jsonschema:"whether the rule is applied"`
	UpdatedAt  string `json:"updated_at" jsonschema:"last change time (RFC 3339)"`
}

// SEORuleCreateInput represents the MCP tool input for rule creation.
type SEORuleCreateInput struct {
	Platform   string `json:"platform" jsonschema:"platform the rule applies to (article, linkedin, x, instagram)"`
	Name       string `json:"name" jsonschema:"rule name"`
	Rule       string `json:"rule" jsonschema:"rule text handed to the composer"`
	Importance int    `json:"importance,omitempty" jsonschema:"ranking weight, highest first"`
	Category   string `json:"category,omitempty" jsonschema:"free-form rule category"`
	Active     *bool  `json:"active,omitempty" jsonschema:"whether the rule is applied; defaults to true"`
}

// SEORuleListInput represents the MCP tool input for rule listings.
type SEORuleListInput struct {
	Platform   string `json:"platform,omitempty" jsonschema:"restrict the listing to one platform"`
	ActiveOnly bool   `json:"active_only,omitempty" jsonschema:"list only active rules, ordered by importance"`
}

// SEORuleListResult represents the MCP tool output for rule listings.
type SEORuleListResult struct {
	Rules []SEORuleEntry `json:"rules" jsonschema:"stored rules"`
}

// SEORuleUpdateInput represents the MCP tool input for rule updates.
// Omitted fields keep their stored values.
type SEORuleUpdateInput struct {
	ID         int64   `json:"id" jsonschema:"rule identifier"`
	Platform   *string `json:"platform,omitempty" jsonschema:"replacement platform"`
	Name       *string `json:"name,omitempty" jsonschema:"replacement name"`
	Rule       *string `json:"rule,omitempty" jsonschema:"replacement rule text"`
	Importance *int    `json:"importance,omitempty" jsonschema:"replacement ranking weight"`
	Category   *string `json:"category,omitempty" jsonschema:"replacement category"`
	Active     *bool   `json:"active,omitempty" jsonschema:"replacement active flag"`
}

// SEORuleUpdateResult represents the MCP tool output for rule updates.
type SEORuleUpdateResult struct {
	Found bool          `json:"found" jsonschema:"whether the rule exists"`
	Rule  *SEORuleEntry `json:"rule,omitempty" jsonschema:"the updated rule when found"`
}

// SEORuleDeleteInput represents the MCP tool input for rule deletion.
type SEORuleDeleteInput struct {
	ID int64 `json:"id" jsonschema:"rule identifier"`
}

// SEORuleDeleteResult represents the MCP tool output for rule deletion.
type SEORuleDeleteResult struct {
	Deleted bool `json:"deleted" jsonschema:"whether a rule was removed"`
}

// SEORuleCreateTool defines the MCP tool schema for creating rules.
func SEORuleCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "seo_rule_create",
		Description: "Creates a per-platform content optimization rule",
	}
}

// SEORuleListTool defines the MCP tool schema for listing rules.
func SEORuleListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "seo_rule_list",
		Description: "Lists optimization rules, optionally restricted to active rules for one platform",
	}
}

// SEORuleUpdateTool defines the MCP tool schema for updating rules.
func SEORuleUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "seo_rule_update",
		Description: "Updates the supplied fields of an optimization rule, leaving the rest unchanged",
	}
}

// SEORuleDeleteTool defines the MCP tool schema for deleting rules.
func SEORuleDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "seo_rule_delete",
		Description: "Deletes an optimization rule",
	}
}

// SEORuleCreateHandler executes a rule creation request. Rules are
// active unless the input says otherwise.
func SEORuleCreateHandler(store storage.SEORuleStore) mcp.ToolHandlerFor[SEORuleCreateInput, SEORuleEntry] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SEORuleCreateInput) (*mcp.CallToolResult, SEORuleEntry, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		active := true
		if input.Active != nil {
			active = *input.Active
		}
		rule, err := store.CreateSEORule(runCtx, storage.NewSEORule{
			Platform:   storage.Platform(input.Platform),
			Name:       input.Name,
			Rule:       input.Rule,
			Importance: input.Importance,
			Category:   input.Category,
			Active:     active,
		})
		if err != nil {
			return nil, SEORuleEntry{}, fmt.Errorf("seo rule create failed: %w", err)
		}
		return nil, seoRuleEntry(rule), nil
	}
}

// SEORuleListHandler executes a rule listing request. Active-only
// listings come back ordered by importance, highest first.
func SEORuleListHandler(store storage.SEORuleStore) mcp.ToolHandlerFor[SEORuleListInput, SEORuleListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SEORuleListInput) (*mcp.CallToolResult, SEORuleListResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		var rules []storage.SEORule
		var err error
		if input.ActiveOnly {
			rules, err = store.ActiveSEORules(runCtx, storage.Platform(input.Platform))
		} else {
			rules, err = store.SEORules(runCtx)
		}
		if err != nil {
			return nil, SEORuleListResult{}, fmt.Errorf("seo rule list failed: %w", err)
		}

		result := SEORuleListResult{Rules: make([]SEORuleEntry, 0, len(rules))}
		for _, rule := range rules {
			if !input.ActiveOnly && input.Platform != "" && string(rule.Platform) != input.Platform {
				continue
			}
			result.Rules = append(result.Rules, seoRuleEntry(rule))
		}
		return nil, result, nil
	}
}

// SEORuleUpdateHandler executes a rule update request. Missing
// identifiers report found=false rather than a tool error.
func SEORuleUpdateHandler(store storage.SEORuleStore) mcp.ToolHandlerFor[SEORuleUpdateInput, SEORuleUpdateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SEORuleUpdateInput) (*mcp.CallToolResult, SEORuleUpdateResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		patch := storage.SEORulePatch{
			Name:       input.Name,
			Rule:       input.Rule,
			Importance: input.Importance,
			Category:   input.Category,
			Active:     input.Active,
		}
		if input.Platform != nil {
			converted := storage.Platform(*input.Platform)
			patch.Platform = &converted
		}

		rule, found, err := store.UpdateSEORule(runCtx, input.ID, patch)
		if err != nil {
			return nil, SEORuleUpdateResult{}, fmt.Errorf("seo rule update failed: %w", err)
		}
		if !found {
			return nil, SEORuleUpdateResult{}, nil
		}
		entry := seoRuleEntry(rule)
		return nil, SEORuleUpdateResult{Found: true, Rule: &entry}, nil
	}
}

// SEORuleDeleteHandler executes a rule deletion request.
func SEORuleDeleteHandler(store storage.SEORuleStore) mcp.ToolHandlerFor[SEORuleDeleteInput, SEORuleDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SEORuleDeleteInput) (*mcp.CallToolResult, SEORuleDeleteResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		deleted, err := store.DeleteSEORule(runCtx, input.ID)
		if err != nil {
			return nil, SEORuleDeleteResult{}, fmt.Errorf("seo rule delete failed: %w", err)
		}
		return nil, SEORuleDeleteResult{Deleted: deleted}, nil
	}
}

func seoRuleEntry(rule storage.SEORule) SEORuleEntry {
	return SEORuleEntry{
		ID:         rule.ID,
		Platform:   string(rule.Platform),
		Name:       rule.Name,
		Rule:       rule.Rule,
		Importance: rule.Importance,
		Category:   rule.Category,
		Active:     rule.Active,
		UpdatedAt:  formatTime(rule.UpdatedAt),
	}
}
