package handler

import (
	"errors"
	"net/http"

	"github.com/JacobChan182/NoMoreTears/internal/api/response"
	"github.com/JacobChan182/NoMoreTears/internal/domain"
	"github.com/rs/zerolog/log"
)

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		response.BadRequest(w, vErr.Error())
		return
	}

	if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrLectureNotFound) {
		response.NotFound(w, err.Error())
		return
	}

	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) {
		response.ServiceUnavailable(w, cfgErr.Error())
		return
	}

	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) {
		log.Error().Err(upErr.Err).Str("service", upErr.Service).Msg("upstream call failed")
		response.BadGateway(w, "upstream service failed: "+upErr.Service)
		return
	}

	log.Error().Err(err).Msg("request failed")
	response.InternalError(w, "internal error")
}
