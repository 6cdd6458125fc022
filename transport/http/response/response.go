// Package response renders every HTTP reply as a JSON envelope: data for
// payloads, error for failures and message for plain acknowledgements.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"tablebook/infras/otel"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"tablebook/shared/logger"

	"github.com/rs/zerolog/log"
)

type Data[T any] struct {
	Data T `json:"data"`
}

type Error struct {
	Error string `json:"error"`
}

type Message struct {
	Message string `json:"message"`
}

func WithMessage(w http.ResponseWriter, code int, message string) {
	write(w, code, Message{Message: message})
}

func WithJSON[T any](w http.ResponseWriter, code int, payload T) {
	write(w, code, Data[T]{Data: payload})
}

// WithError maps err to its failure code. Anything that is not a client
// error is logged and answered with a generic message.
func WithError(w http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	message := err.Error()

	if code >= http.StatusInternalServerError {
		logger.ErrorWithStack(err)

		message = constant.ResponseErrorInternal
	}

	write(w, code, Error{Error: message})
}

// WithFile sends content as a download named filename.
func WithFile(w http.ResponseWriter, contentType, filename string, content []byte) {
	w.Header().Set(constant.RequestHeaderContentType, contentType)
	w.Header().Set(constant.RequestHeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(content); err != nil {
		logger.ErrorWithStack(err)
	}
}

func WithRequestLimitExceeded(w http.ResponseWriter) {
	WithMessage(w, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		http.Error(w, constant.ResponseErrorInternal, http.StatusInternalServerError)

		return
	}

	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}

// Fail records err on scope, logs it with msg and replies with it. Client
// errors are logged at warn level since they need no operator attention.
func Fail(w http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)

	event := log.Warn()
	if failure.GetCode(err) >= http.StatusInternalServerError {
		event = log.Error()
	}

	event.Err(err).Msg(msg)

	WithError(w, err)
}
