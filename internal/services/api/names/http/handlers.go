// Package http provides http transport for names
package http

import (
	stdhttp "net/http"
	"strconv"

	perr "ensnorm/internal/platform/errors"
	phttp "ensnorm/internal/platform/net/http"
	"ensnorm/internal/platform/net/http/bind"
	"ensnorm/internal/services/api/names/domain"
	svc "ensnorm/internal/services/api/names/service"
)

// Register mounts names endpoints on the given router
func Register(r phttp.Router, s svc.Service) {
	h := &handlers{svc: s}
	r.Post("/normalize", phttp.Handle(h.normalize))
	r.Post("/beautify", phttp.Handle(h.beautify))
	r.Post("/cure", phttp.Handle(h.cure))
	r.Post("/tokenize", phttp.Handle(h.tokenize))
	r.Post("/normalizations", phttp.Handle(h.normalizations))
	r.Post("/process", phttp.Handle(h.process))
	r.Get("/recent", phttp.Handle(h.recent))
}

type handlers struct{ svc svc.Service }

// @Summary Normalize a name per ENSIP-15
// @Tags Names
// @Accept json
// @Produce json
// @Param payload body domain.NameInput true "Name"
// @Success 200 {object} domain.NameReport "ok"
// @Router /names/normalize [post]
func (h *handlers) normalize(r *stdhttp.Request) phttp.Response {
	in, err := bind.ParseJSON[domain.NameInput](r)
	if err != nil {
		return phttp.Error(err)
	}
	out, err := h.svc.Normalize(r.Context(), in)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.OK(out)
}

// @Summary Beautify a name
// @Tags Names
// @Accept json
// @Produce json
// @Param payload body domain.NameInput true "Name"
// @Success 200 {object} domain.NameReport "ok"
// @Router /names/beautify [post]
func (h *handlers) beautify(r *stdhttp.Request) phttp.Response {
	in, err := bind.ParseJSON[domain.NameInput](r)
	if err != nil {
		return phttp.Error(err)
	}
	out, err := h.svc.Beautify(r.Context(), in)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.OK(out)
}

// @Summary Cure a name by stripping curable sequences
// @Tags Names
// @Accept json
// @Produce json
// @Param payload body domain.NameInput true "Name"
// @Success 200 {object} domain.CureReport "ok"
// @Router /names/cure [post]
func (h *handlers) cure(r *stdhttp.Request) phttp.Response {
	in, err := bind.ParseJSON[domain.NameInput](r)
	if err != nil {
		return phttp.Error(err)
	}
	out, err := h.svc.Cure(r.Context(), in)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.OK(out)
}

// @Summary Tokenize a name (total, never fails)
// @Tags Names
// @Accept json
// @Produce json
// @Param payload body domain.NameInput true "Name"
// @Success 200 {object} domain.TokenizeReport "ok"
// @Router /names/tokenize [post]
func (h *handlers) tokenize(r *stdhttp.Request) phttp.Response {
	in, err := bind.ParseJSON[domain.NameInput](r)
	if err != nil {
		return phttp.Error(err)
	}
	out, err := h.svc.Tokenize(r.Context(), in)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.OK(out)
}

// @Summary List the transformations normalization would apply
// @Tags Names
// @Accept json
// @Produce json
// @Param payload body domain.NameInput true "Name"
// @Success 200 {object} domain.NormalizationsReport "ok"
// @Router /names/normalizations [post]
func (h *handlers) normalizations(r *stdhttp.Request) phttp.Response {
	in, err := bind.ParseJSON[domain.NameInput](r)
	if err != nil {
		return phttp.Error(err)
	}
	out, err := h.svc.Normalizations(r.Context(), in)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.OK(out)
}

// @Summary Combined pass computing any subset of views
// @Tags Names
// @Accept json
// @Produce json
// @Param payload body domain.ProcessInput true "Request"
// @Success 200 {object} domain.ProcessReport "ok"
// @Router /names/process [post]
func (h *handlers) process(r *stdhttp.Request) phttp.Response {
	in, err := bind.ParseJSON[domain.ProcessInput](r)
	if err != nil {
		return phttp.Error(err)
	}
	out, err := h.svc.Process(r.Context(), in)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.OK(out)
}

// @Summary Recent lookups from the journal
// @Tags Names
// @Produce json
// @Param limit query int false "max rows (1..200)"
// @Success 200 {array} domain.Lookup "ok"
// @Router /names/recent [get]
func (h *handlers) recent(r *stdhttp.Request) phttp.Response {
	in := domain.RecentInput{}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 200 {
			return phttp.Error(perr.InvalidArgf("limit must be an integer in 1..200"))
		}
		in.Limit = n
	}
	out, err := h.svc.Recent(r.Context(), in)
	if err != nil {
		return phttp.Error(perr.FromPg(err))
	}
	return phttp.OK(out)
}
