package config

import "time"

// Session and recommendation defaults
const (
	// Sessions expire 24 hours after creation; the window is fixed at
	// creation and never extended.
	SessionDuration = 24 * time.Hour

	// RestaurantBatchSize is the size of one elimination page. Earlier
	// deployments used 25; 8 keeps a page finishable in one sitting.
	RestaurantBatchSize = 8

	// Join code allocation
	JoinCodeLength      = 6
	MaxJoinCodeAttempts = 10

	// Recommendation scoring defaults
	DefaultMaxRecommendations = 3
	DefaultFavoriteBoost      = 0.5 // halves the elimination penalty for favorites
	DefaultQualityWeight      = 0.1

	// Search defaults
	DefaultSearchRadius = 5000 // meters
	MaxResultsPerType   = 20
	ProviderTimeout     = 10 * time.Second
)

// WebSocket connection limits and constraints
const (
	MaxConnectionsPerSession = 50
	MaxTotalConnections      = 10000

	MaxMessagesPerSecond = 10
	RateLimitWindow      = time.Second

	WriteTimeout = 10 * time.Second
	PingInterval = 30 * time.Second
	PongTimeout  = 90 * time.Second // 3x ping interval for network delay tolerance

	ClientSendBufferSize   = 256
	HubBroadcastBufferSize = 256
)
