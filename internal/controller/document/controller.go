// Package document provides HTTP handlers for candidate documents such as resumes.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ats-backend/internal/database"
	"ats-backend/internal/logging"
	"ats-backend/internal/model"
	"ats-backend/internal/storage"
	"ats-backend/internal/utilities"
)

// DefaultDocumentType is used when the upload does not name one.
const DefaultDocumentType = "Resume"

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".rtf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// DocumentController handles document related endpoints
type DocumentController struct {
	DB      *database.DBinstanceStruct
	Storage storage.StorageClient
}

// NewDocumentController creates a new instance of DocumentController
func NewDocumentController(db *database.DBinstanceStruct, store storage.StorageClient) *DocumentController {
	return &DocumentController{
		DB:      db,
		Storage: store,
	}
}

// GetCandidateDocuments lists the documents uploaded for a candidate.
// @Summary List candidate documents
// @Tags Document
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Success 200 {array} model.Document
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Router /candidates/{id}/documents [get]
func (dc *DocumentController) GetCandidateDocuments(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := dc.DB.WithContext(c.Request.Context())
	if ok, err := database.Exists(db, &model.Candidate{}, id); err != nil {
		utilities.RespondError(c, "Failed to retrieve documents", err)
		return
	} else if !ok {
		utilities.RespondError(c, "Failed to retrieve documents", gorm.ErrRecordNotFound)
		return
	}

	documents := []model.Document{}
	if err := db.Where("candidate_id = ?", id).Order("id").Find(&documents).Error; err != nil {
		utilities.RespondError(c, "Failed to retrieve documents", err)
		return
	}
	c.JSON(http.StatusOK, documents)
}

// UploadDocument stores a file for a candidate.
// @Summary Upload candidate document
// @Description Accepted extensions are .pdf .doc .docx .txt .rtf .png .jpg .jpeg
// @Tags Document
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Candidate id"
// @Param file formData file true "Document"
// @Param documentType formData string false "Kind of document, Resume when omitted"
// @Success 201 {object} model.Document
// @Failure 400 {object} utilities.ErrorResponse "No file"
// @Failure 404 {object} utilities.ErrorResponse "Candidate not found"
// @Failure 413 {object} utilities.ErrorResponse "File too large"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Storage or database error"
// @Router /candidates/{id}/documents [post]
func (dc *DocumentController) UploadDocument(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	db := dc.DB.WithContext(ctx)
	if ok, err := database.Exists(db, &model.Candidate{}, id); err != nil {
		utilities.RespondError(c, "Failed to upload document", err)
		return
	} else if !ok {
		utilities.RespondError(c, "Failed to upload document", gorm.ErrRecordNotFound)
		return
	}

	rawFile, err := c.FormFile("file")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve file: %s", err.Error()),
		})
		return
	}

	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	if !allowedExtensions[extension] {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file extension: %s", extension),
		})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Logger(ctx).Warn("Failed to close uploaded file", zap.Error(err))
		}
	}()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot read file"})
		return
	}

	documentType := strings.TrimSpace(c.PostForm("documentType"))
	if documentType == "" {
		documentType = DefaultDocumentType
	}

	document := model.Document{
		CandidateID:   id,
		FileName:      filepath.Base(rawFile.Filename),
		FileType:      extension,
		FileSize:      int64(len(fileBytes)),
		DocumentType:  documentType,
		ParsedContent: parseContent(extension, fileBytes),
	}
	if err := dc.persistFileData(ctx, &document, fileBytes); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store document: %s", err.Error()),
		})
		return
	}

	if err := db.Create(&document).Error; err != nil {
		dc.removeObject(ctx, document.FilePath)
		utilities.RespondError(c, "Failed to save document", err)
		return
	}
	c.JSON(http.StatusCreated, document)
}

// DownloadDocument streams the stored file back as an attachment.
// @Summary Download document
// @Tags Document
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Document id"
// @Success 200 {string} binary "Document content"
// @Failure 404 {object} utilities.ErrorResponse "Document not found"
// @Failure 500 {object} utilities.ErrorResponse "Fail to send file content"
// @Router /documents/{id}/download [get]
func (dc *DocumentController) DownloadDocument(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var document model.Document
	if err := dc.DB.WithContext(c.Request.Context()).First(&document, id).Error; err != nil {
		utilities.RespondError(c, "Failed to retrieve document", err)
		return
	}

	dc.writeFileResponse(c, &document)
}

// DeleteDocument removes a document, its application links and the stored file.
// @Summary Delete document
// @Tags Document
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Document id"
// @Success 204
// @Failure 404 {object} utilities.ErrorResponse "Document not found"
// @Router /documents/{id} [delete]
func (dc *DocumentController) DeleteDocument(c *gin.Context) {
	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	var document model.Document
	err = dc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&document, id).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Delete(&model.ApplicationDocument{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Document{}, id).Error
	})
	if err != nil {
		utilities.RespondError(c, "Failed to delete document", err)
		return
	}

	dc.removeObject(ctx, document.FilePath)
	c.Status(http.StatusNoContent)
}

func (dc *DocumentController) writeFileResponse(c *gin.Context, document *model.Document) {
	ctx := c.Request.Context()
	if dc.Storage == nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Document storage is not configured",
		})
		return
	}

	reader, size, err := dc.Storage.DownloadFile(ctx, document.FilePath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{
			Error: "Document content is missing from storage",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to download file from storage: %s", err.Error()),
		})
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			logging.Logger(ctx).Warn("Failed to close storage reader", zap.Error(err))
		}
	}()

	contentType := mime.TypeByExtension(document.FileType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Writer.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": document.FileName}))
	c.Writer.Header().Set("Content-Type", contentType)
	if size > 0 {
		c.Writer.Header().Set("Content-Length", fmt.Sprint(size))
	}
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, reader); err != nil {
		dc.handleWriterError(c, err)
	}
}

func (dc *DocumentController) handleWriterError(c *gin.Context, err error) {
	logging.Logger(c.Request.Context()).Warn("Failed to send document", zap.Error(err))
	if !c.Writer.Written() {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to send file content",
		})
	} else {
		c.Abort()
	}
}

// persistFileData uploads fileBytes under the candidate prefix and records the object name on document.
func (dc *DocumentController) persistFileData(ctx context.Context, document *model.Document, fileBytes []byte) error {
	if dc.Storage == nil {
		return errors.New("document storage is not configured")
	}

	objectName := fmt.Sprintf("%s%s%s", storage.CandidatePrefix(document.CandidateID), uuid.NewString(), document.FileType)
	if err := dc.Storage.UploadFile(ctx, objectName, bytes.NewReader(fileBytes)); err != nil {
		return err
	}
	document.FilePath = objectName
	return nil
}

func (dc *DocumentController) removeObject(ctx context.Context, objectName string) {
	if dc.Storage == nil || objectName == "" {
		return
	}
	err := dc.Storage.DeleteFile(ctx, objectName)
	if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		logging.Logger(ctx).Warn("Failed to delete document from storage",
			zap.String("object", objectName), zap.Error(err))
	}
}

// parseContent returns the text of plain text uploads.
func parseContent(extension string, fileBytes []byte) *string {
	if extension != ".txt" || !utf8.Valid(fileBytes) {
		return nil
	}
	text := string(fileBytes)
	return &text
}
