package service

import (
	"github.com/freightpress/freightpress/internal/mcp/domain"
	"github.com/freightpress/freightpress/internal/snapshot"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/freightpress/freightpress/internal/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerSingletonTools adds settings, preferences, and research tools.
func registerSingletonTools(mcpServer *mcp.Server, store storage.Store) {
	mcp.AddTool(mcpServer, domain.SettingsGetTool(), domain.SettingsGetHandler(store))
	mcp.AddTool(mcpServer, domain.SettingsSaveTool(), domain.SettingsSaveHandler(store))
	mcp.AddTool(mcpServer, domain.PreferencesGetTool(), domain.PreferencesGetHandler(store))
	mcp.AddTool(mcpServer, domain.PreferencesSaveTool(), domain.PreferencesSaveHandler(store))
	mcp.AddTool(mcpServer, domain.ResearchParamsGetTool(), domain.ResearchParamsGetHandler(store))
	mcp.AddTool(mcpServer, domain.ResearchParamsSaveTool(), domain.ResearchParamsSaveHandler(store))
}

// registerContentTools adds content item CRUD tools.
func registerContentTools(mcpServer *mcp.Server, store storage.Store) {
	mcp.AddTool(mcpServer, domain.ContentCreateTool(), domain.ContentCreateHandler(store))
	mcp.AddTool(mcpServer, domain.ContentListTool(), domain.ContentListHandler(store))
	mcp.AddTool(mcpServer, domain.ContentGetTool(), domain.ContentGetHandler(store))
	mcp.AddTool(mcpServer, domain.ContentUpdateTool(), domain.ContentUpdateHandler(store))
	mcp.AddTool(mcpServer, domain.ContentDeleteTool(), domain.ContentDeleteHandler(store))
}

// registerConfigTools adds database config management tools.
func registerConfigTools(mcpServer *mcp.Server, store storage.Store) {
	mcp.AddTool(mcpServer, domain.DBConfigCreateTool(), domain.DBConfigCreateHandler(store))
	mcp.AddTool(mcpServer, domain.DBConfigListTool(), domain.DBConfigListHandler(store))
	mcp.AddTool(mcpServer, domain.DBConfigActiveTool(), domain.DBConfigActiveHandler(store))
	mcp.AddTool(mcpServer, domain.DBConfigUpdateTool(), domain.DBConfigUpdateHandler(store))
	mcp.AddTool(mcpServer, domain.DBConfigActivateTool(), domain.DBConfigActivateHandler(store))
	mcp.AddTool(mcpServer, domain.DBConfigDeleteTool(), domain.DBConfigDeleteHandler(store))
}

// registerRuleTools adds SEO rule management tools.
func registerRuleTools(mcpServer *mcp.Server, store storage.Store) {
	mcp.AddTool(mcpServer, domain.SEORuleCreateTool(), domain.SEORuleCreateHandler(store))
	mcp.AddTool(mcpServer, domain.SEORuleListTool(), domain.SEORuleListHandler(store))
	mcp.AddTool(mcpServer, domain.SEORuleUpdateTool(), domain.SEORuleUpdateHandler(store))
	mcp.AddTool(mcpServer, domain.SEORuleDeleteTool(), domain.SEORuleDeleteHandler(store))
}

// registerHashTools adds duplicate-detection fingerprint tools.
func registerHashTools(mcpServer *mcp.Server, store storage.Store) {
	mcp.AddTool(mcpServer, domain.ContentHashCreateTool(), domain.ContentHashCreateHandler(store))
	mcp.AddTool(mcpServer, domain.ContentHashListTool(), domain.ContentHashListHandler(store))
	mcp.AddTool(mcpServer, domain.ContentHashGetTool(), domain.ContentHashGetHandler(store))
	mcp.AddTool(mcpServer, domain.ContentHashDeleteTool(), domain.ContentHashDeleteHandler(store))
}

// registerSnapshotTools adds export, import, and migration tools.
func registerSnapshotTools(mcpServer *mcp.Server, store storage.Store, importer *snapshot.Importer) {
	mcp.AddTool(mcpServer, domain.SnapshotExportTool(), domain.SnapshotExportHandler(store))
	mcp.AddTool(mcpServer, domain.SnapshotImportTool(), domain.SnapshotImportHandler(importer, store))
	mcp.AddTool(mcpServer, domain.SnapshotMigrateTool(), domain.SnapshotMigrateHandler())
}

// registerComposeTools adds article and social post composition tools.
func registerComposeTools(mcpServer *mcp.Server, composer *studio.Studio) {
	mcp.AddTool(mcpServer, domain.ComposeArticleTool(), domain.ComposeArticleHandler(composer))
	mcp.AddTool(mcpServer, domain.ComposeSocialPostTool(), domain.ComposeSocialPostHandler(composer))
}

// registerResources adds readable content and config listings.
func registerResources(mcpServer *mcp.Server, store storage.Store) {
	mcpServer.AddResource(domain.ContentListResource(), domain.ContentListResourceHandler(store))
	mcpServer.AddResource(domain.DBConfigListResource(), domain.DBConfigListResourceHandler(store))
}
