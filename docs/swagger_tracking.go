package docs

// @title           Courier Tracking Service API
// @version         1.0
// @description     Ingests courier position fixes, computes routes and arrival estimates, ranks nearby stores, and publishes live fleet snapshots. Supports WebSocket connections for streaming ingest.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
