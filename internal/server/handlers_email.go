package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/jonathan/hireflow/internal/mailer"
	"github.com/jonathan/hireflow/internal/metrics"
	"github.com/jonathan/hireflow/internal/types"
)

// maxMultipartMemory is the part of an upload kept in memory before spilling to disk.
const maxMultipartMemory = 8 << 20

// formField names a send-email form field and the legacy names it is also accepted under.
type formField struct {
	name     string
	aliases  []string
	required bool
}

func (f formField) lookup(form *multipart.Form) (string, bool) {
	for _, key := range append([]string{f.name}, f.aliases...) {
		if vals, ok := form.Value[key]; ok && len(vals) > 0 {
			return vals[0], true
		}
	}
	return "", false
}

var (
	fieldRecipientEmail      = formField{name: "recipientEmail", aliases: []string{"email"}, required: true}
	fieldCompanyName         = formField{name: "companyName", aliases: []string{"empresa"}, required: true}
	fieldPersonalizedMessage = formField{name: "personalizedMessage", aliases: []string{"personalizado"}, required: true}
	fieldFullName            = formField{name: "fullName", required: true}
	fieldSenderEmail         = formField{name: "senderEmail", required: true}
	fieldCredential          = formField{name: "credential", aliases: []string{"smtpKey"}}
	fieldWorkstation         = formField{name: "workstation", required: true}
	fieldJobInfo             = formField{name: "jobInfo", required: true}
	fieldLocation            = formField{name: "location", required: true}
	fieldPhone               = formField{name: "phone", required: true}
	fieldLinkedinURL         = formField{name: "linkedinUrl", aliases: []string{"linkedin"}}
	fieldEducationLevel      = formField{name: "educationLevel", required: true}
	fieldExperienceLevel     = formField{name: "experienceLevel", required: true}
	fieldVariant             = formField{name: "variant"}
)

// resumeFileFields are the file part names accepted for the attached resume.
var resumeFileFields = []string{"resume", "cv"}

const defaultAttachmentType = "application/pdf"

// handleSendEmail composes the application email and delivers it through the
// applicant's SMTP account. Without sender credentials the send is simulated.
func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(min(s.cfg.Server.MaxUploadBytes, maxMultipartMemory)); err != nil {
		metrics.EmailsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.fail(w, r, err)
			return
		}
		s.fail(w, r, &ErrValidation{Message: "expected a multipart/form-data body"})
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	req, err := decodeSendEmailForm(r.MultipartForm)
	if err != nil {
		metrics.EmailsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		s.fail(w, r, err)
		return
	}

	if err := req.Validate(s.validator); err != nil {
		metrics.EmailsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		s.fail(w, r, validationError(err))
		return
	}

	variant, err := s.resolveVariant(req.Variant, req.Profile.Credential)
	if err != nil {
		metrics.EmailsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		s.fail(w, r, err)
		return
	}

	if req.Simulated() {
		metrics.EmailsTotal.WithLabelValues(metrics.OutcomeSimulated).Inc()
		s.log.Info("no sender credentials, simulating send", map[string]interface{}{
			"recipient": req.Target.RecipientEmail,
			"variant":   string(variant),
		})
		s.jsonResponse(w, http.StatusOK, types.SendEmailResponse{
			OK:        true,
			Simulated: true,
			Message:   "Envío simulado",
		})
		return
	}

	html, err := s.renderer.Render(variant, mailer.DataFromRequest(req))
	if err != nil {
		metrics.EmailsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		s.fail(w, r, err)
		return
	}

	messageID, err := s.sender.Send(r.Context(), mailer.Compose(req, html, s.cfg.SMTP.FromAddress))
	if err != nil {
		metrics.EmailsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		s.fail(w, r, &ErrProviderUnavailable{Provider: "smtp", Cause: err})
		return
	}

	metrics.EmailsTotal.WithLabelValues(metrics.OutcomeSent).Inc()
	s.log.Info("application email delivered", map[string]interface{}{
		"variant":    string(variant),
		"message_id": messageID,
	})
	s.jsonResponse(w, http.StatusOK, types.SendEmailResponse{OK: true, MessageID: messageID})
}

// decodeSendEmailForm reads the send-email fields and the optional resume from form.
// A missing required field yields an *ErrValidation naming it.
func decodeSendEmailForm(form *multipart.Form) (*types.SendEmailRequest, error) {
	values := make(map[string]string)
	for _, f := range []formField{
		fieldRecipientEmail, fieldCompanyName, fieldPersonalizedMessage, fieldFullName,
		fieldSenderEmail, fieldCredential, fieldWorkstation, fieldJobInfo, fieldLocation,
		fieldPhone, fieldLinkedinURL, fieldEducationLevel, fieldExperienceLevel, fieldVariant,
	} {
		v, ok := f.lookup(form)
		if !ok && f.required {
			return nil, &ErrValidation{Field: f.name, Message: "is required"}
		}
		values[f.name] = v
	}

	resume, err := readResume(form)
	if err != nil {
		return nil, err
	}

	return &types.SendEmailRequest{
		Profile: types.ApplicantProfile{
			SenderEmail:     values[fieldSenderEmail.name],
			Credential:      values[fieldCredential.name],
			FullName:        values[fieldFullName.name],
			Phone:           values[fieldPhone.name],
			Location:        values[fieldLocation.name],
			EducationLevel:  values[fieldEducationLevel.name],
			Workstation:     values[fieldWorkstation.name],
			JobInfo:         values[fieldJobInfo.name],
			ExperienceLevel: values[fieldExperienceLevel.name],
			LinkedinURL:     values[fieldLinkedinURL.name],
		},
		Target: types.ApplicationTarget{
			RecipientEmail:      values[fieldRecipientEmail.name],
			CompanyName:         values[fieldCompanyName.name],
			PersonalizedMessage: values[fieldPersonalizedMessage.name],
		},
		Variant: values[fieldVariant.name],
		Resume:  resume,
	}, nil
}

// readResume buffers the first resume file part, if any.
func readResume(form *multipart.Form) (*types.Attachment, error) {
	for _, key := range resumeFileFields {
		headers := form.File[key]
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open resume upload: %w", err)
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read resume upload: %w", err)
		}

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = defaultAttachmentType
		}
		return &types.Attachment{
			Filename:    fh.Filename,
			Content:     content,
			ContentType: contentType,
		}, nil
	}
	return nil, nil
}
