package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"

	"github.com/parley-chat/parley/internal/domain"
	"github.com/parley-chat/parley/internal/storage"
)

const qrImageSize = 256

// FileHandler handles QR-code file uploads and downloads.
type FileHandler struct {
	store   storage.Store
	files   domain.FileRepository
	baseURL string
}

// NewFileHandler creates a new FileHandler. baseURL is the externally
// reachable address encoded into generated QR codes.
func NewFileHandler(store storage.Store, files domain.FileRepository, baseURL string) *FileHandler {
	return &FileHandler{
		store:   store,
		files:   files,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// UploadQR stores an uploaded file and answers with a QR code PNG, as a
// data URI, that encodes the file's download link.
func (h *FileHandler) UploadQR(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file provided"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to open uploaded file"})
	}
	defer src.Close()

	ctx := c.Request().Context()

	// Base strips any client-supplied directories from the name.
	sanitized := filepath.Base(fileHeader.Filename)
	storagePath := filepath.Join("files", fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitized))

	bytesWritten, err := h.store.Save(ctx, storagePath, src)
	if err != nil {
		slog.Error("Failed to save uploaded file", "path", storagePath, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save file"})
	}

	meta, err := h.files.Create(ctx, &domain.StoredFile{
		Filename:    sanitized,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		SizeBytes:   bytesWritten,
		StoragePath: storagePath,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		slog.Error("Failed to save file metadata", "error", err)
		_ = h.store.Delete(ctx, storagePath)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save file"})
	}

	downloadURL := fmt.Sprintf("%s/files/%v/download", h.baseURL, meta.ID.ID)

	png, err := qrcode.Encode(downloadURL, qrcode.Medium, qrImageSize)
	if err != nil {
		slog.Error("Failed to encode QR code", "url", downloadURL, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to generate QR code"})
	}

	return c.JSON(http.StatusOK, QRCodeResponse{
		Message: fmt.Sprintf("File %s uploaded successfully", sanitized),
		QRCode:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

// Download streams a stored file by its id.
func (h *FileHandler) Download(c echo.Context) error {
	id := c.Param("id")

	file, err := h.files.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "file not found"})
		}
		slog.Error("Failed to look up file", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not retrieve file"})
	}

	content, err := h.store.Open(c.Request().Context(), file.StoragePath)
	if err != nil {
		slog.Error("Failed to open stored file", "path", file.StoragePath, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not retrieve file"})
	}
	defer content.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Stream(http.StatusOK, file.MimeType, content)
}
