// Package docs provides Swagger documentation for the API.
package docs

// @title Follow-up CRM API
// @version 1.0
// @description Lead ownership ledger and follow-up tracking for sales teams
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@followup.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
