// Package docs provides generated OpenAPI documentation.
//
// Titlescan API
//
//	@title			Titlescan API
//	@version		1.0
//	@description	Vehicle title extraction API for uploading title PDFs and retrieving structured vehicle records.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/titlescan
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/titlescan/serve.go -o ./swagger --parseDependency --parseInternal
