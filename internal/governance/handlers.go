package governance

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	com "github.com/citizenwallet/governance/internal/common"
	"github.com/citizenwallet/governance/internal/services/db"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
)

type Service struct {
	db *db.DB
}

func NewService(db *db.DB) *Service {
	return &Service{
		db: db,
	}
}

// GetProposals godoc
//
//	@Summary		Fetch orchestrated proposals
//	@Description	list the lifecycle runs recorded against a governance contract, newest first
//	@Tags			proposals
//	@Produce		json
//	@Param			governor	path		string	true	"Governance Contract Address"
//	@Success		200			{object}	common.Response
//	@Failure		400
//	@Failure		500
//	@Router			/proposals/{governor} [get]
func (s *Service) GetProposals(w http.ResponseWriter, r *http.Request) {
	// parse contract address from url params
	governor := chi.URLParam(r, "governor")
	if !common.IsHexAddress(governor) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// parse pagination params from url query
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	props, err := s.db.ProposalDB.GetProposals(r.Context(), com.ChecksumAddress(governor), limit, offset)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	total, err := s.db.ProposalDB.CountProposals(r.Context(), com.ChecksumAddress(governor))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	err = com.BodyMultiple(w, props, com.Pagination{Limit: limit, Offset: offset, Total: total})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetProposal godoc
//
//	@Summary	Fetch one orchestrated proposal
//	@Tags		proposals
//	@Produce	json
//	@Param		governor	path		string	true	"Governance Contract Address"
//	@Param		run_id		path		string	true	"Lifecycle run id"
//	@Success	200			{object}	common.Response
//	@Failure	400
//	@Failure	404
//	@Failure	500
//	@Router		/proposals/{governor}/{run_id} [get]
func (s *Service) GetProposal(w http.ResponseWriter, r *http.Request) {
	governor := chi.URLParam(r, "governor")
	if !common.IsHexAddress(governor) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	runID := chi.URLParam(r, "run_id")

	prop, err := s.db.ProposalDB.GetProposal(r.Context(), com.ChecksumAddress(governor), runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	err = com.Body(w, prop, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
