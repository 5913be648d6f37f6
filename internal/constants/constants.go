package constants

// Centralized constants for env keys, routes, JSON keys and the OpenAI
// narrative integration.
const (
	// Environment variable keys
	EnvCatalogPath  = "GAME_CATALOG"
	EnvDatabasePath = "GAME_DB"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvOTELEnabled  = "GAME_TELEMETRY"
	EnvIdleTimeout  = "GAME_IDLE_TIMEOUT"

	// Defaults
	DefaultCatalogPath  = "./catalog.json"
	DefaultDatabasePath = "./data/game.db"
	DefaultServerAddr   = ":8080"
	DefaultIdleTimeout  = "30m"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// OpenAI API endpoint used by the narrative provider
	OpenAIBaseURL             = "https://api.openai.com"
	OpenAIChatCompletionsPath = "/v1/chat/completions"
	OpenAIChatModel           = "gpt-5-nano"
)

// Routes used by the backend router
const (
	RouteAPIPrefix        = "/api"
	RouteHealthz          = "/healthz"
	RouteVersion          = "/version"
	RouteAdventures       = "/adventures"
	RouteAdventureByID    = "/adventures/:sessionID"
	RouteAdventureActions = "/adventures/:sessionID/actions"
	RouteSummaryByID      = "/summaries/:sessionID"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrInvalidSessionID   = "Invalid session ID"
	ErrSessionNotFound    = "Session not found"
	ErrSummaryNotFound    = "Summary not found"
	ErrAdventureOver      = "Adventure has already ended"
	ErrSceneMismatch      = "Action does not target the current scene"
	ErrNotInCombat        = "Combat command submitted outside combat"
	ErrActionNotAllowed   = "Action is not legal in the current scene"
	ErrNotEnoughEnergy    = "Not enough energy for this action"
	ErrFailedStartAdv     = "Failed to start adventure"
	ErrFailedStoreSession = "Failed to store session"
	ErrFailedFetchSession = "Failed to fetch session"
)

// Log field names used across the application
const (
	LogFieldAddr      = "addr"
	LogFieldSessionID = "session_id"
	LogFieldSceneID   = "scene_id"
	LogFieldActionID  = "action_id"
	LogFieldPlayer    = "player"
	LogFieldReason    = "reason"
	LogFieldSeed      = "seed"
	LogFieldSteps     = "steps"
	LogFieldSource    = "source"
)
