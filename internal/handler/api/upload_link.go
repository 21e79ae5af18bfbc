package api

import (
	"net/http"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
	"github.com/fhuszti/medias-lifecycle-go/internal/port"
)

type GenerateUploadLinkRequest struct {
	OriginalFilename string `json:"originalFilename" validate:"required,max=255"`
	ContentType      string `json:"contentType" validate:"required"`
	Width            *int   `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height           *int   `json:"height,omitempty" validate:"omitempty,gt=0"`
}

func GenerateUploadLinkHandler(svc port.UploadLinkGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenerateUploadLinkRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		out, err := svc.GenerateUploadLink(r.Context(), port.GenerateUploadLinkInput(req))
		if err != nil {
			WriteServiceError(w, r, "Could not generate upload link", err)
			return
		}

		RespondJSON(w, r, http.StatusCreated, out)
		logger.Infof(r.Context(), "✅  Successfully generated upload link for media #%s", out.ID)
	}
}
