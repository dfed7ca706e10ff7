package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pkruger-dev/tabulaq/internal/core"
	"github.com/pkruger-dev/tabulaq/internal/models"
	"github.com/pkruger-dev/tabulaq/internal/services"
)

type DocumentHandler struct {
	documents *services.DocumentService
	ingestor  core.Ingestor
}

func NewDocumentHandler(documents *services.DocumentService, ingestor core.Ingestor) *DocumentHandler {
	return &DocumentHandler{documents: documents, ingestor: ingestor}
}

// UploadDocument handles file upload: archive to object storage, register in
// the document registry, run the ingestion pipeline and return its metadata.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {

	r.ParseMultipartForm(52 << 20) // 52 MB

	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "reading file failed", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	cleanFilename := filepath.Base(header.Filename)
	docID := uuid.NewString()

	uploadCtx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	if _, err := h.documents.ArchiveAndRegister(uploadCtx, userID, docID, cleanFilename, contentType, raw); err != nil {
		log.Printf("archive failed for doc %s: %v", docID, err)
		http.Error(w, fmt.Sprintf("failed to store document: %v", err), http.StatusInternalServerError)
		return
	}

	_ = h.documents.SetStatus(uploadCtx, docID, "processing")

	req := &models.IngestRequest{
		Filename:         cleanFilename,
		RawContent:       raw,
		DocumentID:       docID,
		DocumentSource:   formValue(r, "document_source", "upload"),
		DocumentClass:    optFormValue(r, "document_class"),
		DocumentMimeType: &contentType,
		DocumentInternal: optFormValue(r, "document_internal"),
		Description:      optFormValue(r, "description"),
	}

	md, err := h.ingestor.Ingest(uploadCtx, req)
	if err != nil {
		// Delegated default-pipeline errors propagate unchanged.
		_ = h.documents.SetStatus(uploadCtx, docID, "failed")
		log.Printf("ingestion failed for doc %s: %v", docID, err)
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusInternalServerError)
		return
	}

	status := "ready"
	if md.Failed() {
		status = "failed"
	}
	_ = h.documents.SetStatus(uploadCtx, docID, status)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(md)
}

func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	documents, err := h.documents.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(documents)
}

func formValue(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}

func optFormValue(r *http.Request, key string) *string {
	if v := r.FormValue(key); v != "" {
		return &v
	}
	return nil
}
