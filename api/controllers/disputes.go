package controllers

import (
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/swapsafe/swapsafe-backend/api/responses"
	"github.com/swapsafe/swapsafe-backend/api/validators"
	"github.com/swapsafe/swapsafe-backend/internal/disputes"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
)

const (
	evidenceFormField  = "evidence"
	multipartMemoryCap = 8 << 20
	multipartFormSlack = 1 << 20
)

// SubmitDispute files a dispute on a transaction. The form arrives either as
// JSON carrying evidence references or as multipart/form-data with the files
// attached; uploaded files are sniffed and only their metadata is kept.
func SubmitDispute(svc disputes.Service, limits disputes.Limits, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispute service unavailable"))
			return
		}

		viewer, err := viewerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input disputes.SubmitInput
		if isMultipart(r) {
			input, err = decodeDisputeForm(w, r, limits)
		} else {
			err = validators.DecodeJSONBody(r, &input)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), viewer, transactionIDParam(r), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func ListDisputes(svc disputes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispute service unavailable"))
			return
		}

		viewer, err := viewerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), viewer, transactionIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func decodeDisputeForm(w http.ResponseWriter, r *http.Request, limits disputes.Limits) (disputes.SubmitInput, error) {
	maxFiles, maxBytes := limits.MaxFiles, limits.MaxBytes
	if maxFiles <= 0 {
		maxFiles = disputes.DefaultMaxEvidenceFiles
	}
	if maxBytes <= 0 {
		maxBytes = disputes.DefaultMaxEvidenceBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxFiles)*maxBytes+multipartFormSlack)

	var input disputes.SubmitInput
	if err := r.ParseMultipartForm(multipartMemoryCap); err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	defer r.MultipartForm.RemoveAll()

	reason, err := enums.ParseDisputeReason(strings.TrimSpace(r.FormValue("reason")))
	if err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dispute reason").WithDetails(map[string]any{"field": "reason"})
	}
	action, err := enums.ParseRequestedAction(strings.TrimSpace(r.FormValue("requestedAction")))
	if err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid requested action").WithDetails(map[string]any{"field": "requestedAction"})
	}
	input.Reason = reason
	input.RequestedAction = action
	input.Description = r.FormValue("description")

	headers := r.MultipartForm.File[evidenceFormField]
	if len(headers) > maxFiles {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "too many evidence files").
			WithDetails(map[string]any{"field": "evidence", "max": maxFiles})
	}
	for _, fh := range headers {
		file, err := inspectUpload(fh)
		if err != nil {
			return input, err
		}
		input.Evidence = append(input.Evidence, file)
	}
	return input, nil
}

func inspectUpload(fh *multipart.FileHeader) (disputes.EvidenceFile, error) {
	f, err := fh.Open()
	if err != nil {
		return disputes.EvidenceFile{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read evidence file").WithDetails(map[string]any{"field": "evidence", "file": fh.Filename})
	}
	defer f.Close()

	file, err := disputes.Inspect(fh.Filename, fh.Size, f)
	if err != nil {
		return disputes.EvidenceFile{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable evidence file").WithDetails(map[string]any{"field": "evidence", "file": fh.Filename})
	}
	return file, nil
}
