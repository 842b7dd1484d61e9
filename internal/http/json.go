package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	apperrors "github.com/jobhuntos/jobhunt-api/internal/errors"
)

// maxBodyBytes bounds request bodies; an application record is a few KB at most.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if fieldErr := fieldDecodeError(err); fieldErr != nil {
			WriteAppError(w, fieldErr)
			return false
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	if dec.More() {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_json",
			Err:     errors.New("request body must contain a single JSON object"),
		})
		return false
	}

	return true
}

// nextActionDateField is the only record field decoded as a model.Date.
const nextActionDateField = "next_action_date"

// fieldDecodeError turns a decode failure confined to one field into a
// field-named validation error. It returns nil for malformed documents.
func fieldDecodeError(err error) *apperrors.AppError {
	var dateErr *model.DateError
	if errors.As(err, &dateErr) {
		return apperrors.ValidationField(nextActionDateField, "must be a valid calendar date (YYYY-MM-DD)")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.ValidationField(typeErr.Field, "must be "+jsonTypeName(typeErr.Type))
	}
	return nil
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a valid value"
	}
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError to adhere to the ≤3 params guideline.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
	Field   string
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, errorBody{Error: p.Err.Error(), Code: p.ErrCode, Field: p.Field})
}

// WriteAppError maps err onto a status code and writes it. Messages of
// unclassified errors are not echoed to the client.
func WriteAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		WriteError(w, ErrorParams{
			Code:    StatusForError(err),
			ErrCode: string(apperrors.ErrCodeInternal),
			Err:     errors.New("internal server error"),
		})
		return
	}

	msg := appErr.Message
	if appErr.Field != "" {
		msg = appErr.Field + ": " + msg
	}
	WriteError(w, ErrorParams{
		Code:    StatusForError(err),
		ErrCode: string(appErr.Code),
		Err:     errors.New(msg),
		Field:   appErr.Field,
	})
}
