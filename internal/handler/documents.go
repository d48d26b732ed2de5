package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/Vebses/GeoAdmin-sub000/internal/apierror"
	"github.com/Vebses/GeoAdmin-sub000/internal/model"
	"github.com/Vebses/GeoAdmin-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type DocumentsHandler struct{ mail service.MailService }

func NewDocumentsHandler(mail service.MailService) *DocumentsHandler {
	return &DocumentsHandler{mail: mail}
}

// Render godoc
// @Summary      Render the invoice PDF
// @Description  Streams the invoice document. lang overrides the stored language for this render only; disposition=attachment forces a download instead of inline viewing.
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id          path  string true  "Invoice id"
// @Param        lang        query string false "en | ka"
// @Param        disposition query string false "inline | attachment"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/invoices/{id}/document [get]
func (h *DocumentsHandler) Render(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	lang := c.Query("lang")
	if lang != "" && lang != model.LangEN && lang != model.LangKA {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"lang": "oneof=en ka"}))
		return
	}

	data, filename, err := h.mail.RenderDocument(c.Request.Context(), id, lang)
	if err != nil {
		fail(c, err)
		return
	}

	disposition := "inline"
	if c.Query("disposition") == "attachment" {
		disposition = "attachment"
	}
	// Both the plain and the RFC 5987 forms, so browsers keep the Georgian
	// filename intact while older clients get a usable ASCII fallback.
	c.Header("Content-Disposition", fmt.Sprintf(`%s; filename="%s"; filename*=UTF-8''%s`,
		disposition, asciiFallback(filename), url.PathEscape(filename)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// asciiFallback strips non-ASCII runes from a filename for the plain
// Content-Disposition parameter.
func asciiFallback(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r >= 0x20 && r < 0x7f && r != '"' && r != '\\' {
			out = append(out, r)
		}
	}
	if len(out) == 0 || string(out) == ".pdf" {
		return "invoice.pdf"
	}
	return string(out)
}
