package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Request payloads for the JSON surface. Binding tags mirror the limits the
// original forms enforced.

type CreateContractRequest struct {
	Title      string `form:"title" json:"title" binding:"required,min=1,max=200"`
	Content    string `form:"content" json:"content" binding:"omitempty"`
	Category   string `form:"category" json:"category" binding:"omitempty,max=100"`
	TemplateID string `form:"templateId" json:"templateId" binding:"omitempty,uuid"`
}

type CreateVersionRequest struct {
	Content string `form:"content" json:"content" binding:"omitempty"`
}

type UpdateContentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type AddCommentRequest struct {
	VersionID string `json:"versionId" binding:"required,uuid"`
	Content   string `json:"content" binding:"required,min=1,max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT REVIEW APPROVED REJECTED FINALIZED"`
}

type AssignContractRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
}

type SignContractRequest struct {
	SignatureDataURL string `json:"signatureDataUrl" binding:"required,min=1"`
}

type CreateTemplateRequest struct {
	Name        string `form:"name" json:"name" binding:"required,min=1,max=100"`
	Description string `form:"description" json:"description" binding:"omitempty,max=500"`
	Content     string `form:"content" json:"content" binding:"omitempty"`
}

type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=1,max=120"`
	Role  string `json:"role" binding:"omitempty,oneof=ADMIN LEGAL USER"`
}

var fieldMessages = map[string]string{
	"required": "es obligatorio",
	"min":      "es demasiado corto",
	"max":      "supera la longitud permitida",
	"email":    "no es un correo válido",
	"uuid":     "no es un identificador válido",
	"oneof":    "no es un valor permitido",
}

// Describe turns a binding error into a short per-field message suitable for
// the error envelope. Non-validator errors come back verbatim.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "no es válido"
		}
		parts = append(parts, fmt.Sprintf("%s %s", jsonField(fe), msg))
	}
	return strings.Join(parts, "; ")
}

func jsonField(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "campo"
	}
	return strings.ToLower(name[:1]) + name[1:]
}
