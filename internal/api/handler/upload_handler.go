package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dars410/catalog-api/internal/api/metrics"
	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

// UploadField is the multipart field files are sent under.
const UploadField = "image"

// UploadHandler stores standalone uploads.
type UploadHandler struct {
	uploads ports.UploadService
}

func NewUploadHandler(uploads ports.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

type uploadResponse struct {
	Path      string `json:"path"`
	Category  string `json:"category"`
	Filename  string `json:"filename"`
	MediaType string `json:"mediaType"`
	Size      int64  `json:"size"`
}

// Upload stores one file and returns its public path.
//
// @Summary      Upload a file
// @Tags         uploads
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "File (jpeg, png, gif or pdf, max 6 MiB)"
// @Success      201    {object}  uploadResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      413    {object}  ErrorResponse
// @Failure      415    {object}  ErrorResponse
// @Router       /uploads [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile(UploadField)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required in field \""+UploadField+"\"").
			SetInternal(domain.ErrMissingFile)
	}

	file, err := storeUpload(c, h.uploads, fh)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, uploadResponse{
		Path:      file.Path,
		Category:  string(file.Category),
		Filename:  file.Filename,
		MediaType: file.MediaType,
		Size:      file.Size,
	})
}

// sniffLen is how many leading bytes http.DetectContentType looks at.
const sniffLen = 512

// Serve returns a stored upload. The Content-Type is derived from the file's
// leading bytes and its category, never from the client-chosen extension;
// anything that is not an accepted type of that category is sent as an
// attachment.
//
// @Summary      Download an uploaded file
// @Tags         uploads
// @Produce      octet-stream
// @Param        category  path      string  true  "Storage category"  Enums(image, document, file)
// @Param        name      path      string  true  "Stored file name"
// @Success      200       {file}    binary
// @Failure      404       {object}  ErrorResponse
// @Router       /uploads/{category}/{name} [get]
func (h *UploadHandler) Serve(c echo.Context) error {
	category := domain.FileCategory(c.Param("category"))
	f, err := h.uploads.Open(c.Request().Context(), category, c.Param("name"))
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	mediaType, inline := domain.ServedMediaType(category, http.DetectContentType(head[:n]))
	hdr := c.Response().Header()
	hdr.Set(echo.HeaderContentType, mediaType)
	hdr.Set(echo.HeaderXContentTypeOptions, "nosniff")
	if !inline {
		hdr.Set(echo.HeaderContentDisposition, "attachment")
	}
	http.ServeContent(c.Response(), c.Request(), fi.Name(), fi.ModTime(), f)
	return nil
}

// storeUpload runs fh through the upload service and records the outcome.
func storeUpload(c echo.Context, uploads ports.UploadService, fh *multipart.FileHeader) (*domain.UploadedFile, error) {
	file, err := uploads.Store(c.Request().Context(), fileInput(fh))
	switch {
	case err == nil:
		metrics.UploadsTotal.WithLabelValues(string(file.Category), "stored").Inc()
		metrics.UploadBytes.Observe(float64(file.Size))
		return file, nil
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		metrics.UploadsTotal.WithLabelValues("none", "unsupported").Inc()
	case errors.Is(err, domain.ErrPayloadTooLarge):
		metrics.UploadsTotal.WithLabelValues("none", "too_large").Inc()
	default:
		metrics.UploadsTotal.WithLabelValues("none", "error").Inc()
	}
	return nil, err
}
