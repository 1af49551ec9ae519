package http

import (
	"net/http"

	"github.com/matteiweekly/newsroom/internal/newsroom/service"
	"github.com/matteiweekly/newsroom/pkg/httpx"
)

type ExportHandler struct {
	ExportService *service.ExportService
}

// HandleExport serializes the whole workspace to JSON.
//
//	@Summary		Export workspace data
//	@Description	Returns all users, articles, chat, todos, notifications and settings as a single JSON bundle. Credentials never leave the server. Admin only.
//	@Tags			Export
//	@Produce		json
//	@Success		200	{object}	service.ExportBundle
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/export [get]
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.ExportService.Export(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	filename := "newsroom-export-" + bundle.ExportedAt.UTC().Format("20060102-150405") + ".json"
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bundle)
}

// HandleImport loads a previously exported bundle.
//
//	@Summary		Import workspace data
//	@Description	Merges an exported bundle into the workspace. Existing records are updated, missing ones created. Admin only.
//	@Tags			Export
//	@Accept			json
//	@Produce		json
//	@Param			request	body	service.ExportBundle	true	"Exported bundle"
//	@Success		204		"Imported"
//	@Failure		400		{object}	httpx.ErrorResponse	"Malformed bundle or unsupported schema version"
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/import [post]
func (h *ExportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var bundle service.ExportBundle
	if !decodeBody(w, r, &bundle) {
		return
	}

	if err := h.ExportService.Import(r.Context(), actorFrom(r), bundle); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
