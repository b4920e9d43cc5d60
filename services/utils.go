package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"clearwater/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// storeTimeout bounds every repository call so a stuck connection cannot
// hold a request open indefinitely.
const storeTimeout = 5 * time.Second

func storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), storeTimeout)
}

// ParseRequestBody decodes the request body into T. Unknown keys are
// rejected so a mistyped field name fails loudly instead of being dropped.
func ParseRequestBody[T any](r *http.Request) (T, error) {
	var data T
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&data); err != nil {
		slog.Error("error parsing request body", "error", err)
		return data, fmt.Errorf("error parsing request body")
	}
	return data, nil
}

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(err error, code int) error {
	return &codedError{err: err, code: code}
}

type RestHandler func(r *http.Request) (any, error)

func wrapHandler(handler RestHandler, successStatus int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(r)
		if err != nil {
			var cerr *codedError
			if errors.As(err, &cerr) {
				http.Error(w, err.Error(), cerr.code)
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}

		if successStatus == http.StatusNoContent {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if res == nil {
			res = struct{}{}
		}

		WriteJsonResponse(w, successStatus, res)
	}
}

func WrapRestHandler(handler RestHandler) http.HandlerFunc {
	return wrapHandler(handler, http.StatusOK)
}

func WrapCreateHandler(handler RestHandler) http.HandlerFunc {
	return wrapHandler(handler, http.StatusCreated)
}

func WrapDeleteHandler(handler RestHandler) http.HandlerFunc {
	return wrapHandler(handler, http.StatusNoContent)
}

func WriteJsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("error serializing response body", "error", err)
		http.Error(w, "error serializing response body", http.StatusInternalServerError)
	}
}

func URLParamUUID(r *http.Request, key string) (uuid.UUID, error) {
	param := chi.URLParam(r, key)

	if len(param) == 0 {
		return uuid.Nil, fmt.Errorf("missing {%v} url parameter", key)
	}

	id, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid uuid '%v' provided: %w", param, err)
	}

	return id, nil
}

// QueryParamInt parses an optional integer query parameter, returning nil
// when the parameter is absent. Non-numeric values are rejected before any
// store access.
func QueryParamInt(r *http.Request, key string) (*int, error) {
	param := r.URL.Query().Get(key)
	if param == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(param)
	if err != nil {
		return nil, fmt.Errorf("query parameter '%v' must be an integer, got '%v'", key, param)
	}
	return &value, nil
}

// QueryParamBool parses an optional boolean query parameter. False is a real
// filter value, so absence and false must stay distinguishable.
func QueryParamBool(r *http.Request, key string) (*bool, error) {
	param := r.URL.Query().Get(key)
	if param == "" {
		return nil, nil
	}

	value, err := strconv.ParseBool(param)
	if err != nil {
		return nil, fmt.Errorf("query parameter '%v' must be a boolean, got '%v'", key, param)
	}
	return &value, nil
}

func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrPublicationNotFound),
		errors.Is(err, store.ErrAuthorNotFound),
		errors.Is(err, store.ErrCategoryNotFound),
		errors.Is(err, store.ErrProgramAreaNotFound),
		errors.Is(err, store.ErrProjectNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
