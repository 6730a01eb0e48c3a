// Package files wires the QR-code file upload and download endpoints.
package files

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/parley-chat/parley/internal/domain"
	"github.com/parley-chat/parley/internal/handlers"
	"github.com/parley-chat/parley/internal/module"
	"github.com/parley-chat/parley/internal/registry"
	"github.com/parley-chat/parley/internal/storage"
)

// Dependencies holds the services the files module needs.
type Dependencies struct {
	Uploads storage.Store
	Files   domain.FileRepository
	BaseURL string
}

// Module implements module.Module for the file sharing feature.
type Module struct {
	module.BaseModule
	handler *handlers.FileHandler
}

// New creates the files module.
func New(deps Dependencies) *Module {
	return &Module{
		handler: handlers.NewFileHandler(deps.Uploads, deps.Files, deps.BaseURL),
	}
}

func (m *Module) Name() string {
	return "files"
}

func (m *Module) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	router.POST("/qrcode_file", m.handler.UploadQR)
	router.GET("/files/:id/download", m.handler.Download)
	return nil
}
