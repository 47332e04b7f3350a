// Package api exposes the registry over HTTP. All state-changing routes
// submit a command through the processor and wait for its result; reads go
// straight to the state repository.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/tkaster/curio/internal/bank"
	"github.com/tkaster/curio/internal/log"
	"github.com/tkaster/curio/internal/pubsub"
	"github.com/tkaster/curio/internal/registry"
	"github.com/tkaster/curio/internal/registry/command"
	"github.com/tkaster/curio/internal/registry/processor"
	"github.com/tkaster/curio/internal/registry/repository"
)

// AccountHeader carries the authenticated caller account. Authentication
// proper is out of scope; the daemon trusts the header the way the CLI
// trusts its --account flag.
const AccountHeader = "X-Curio-Account"

const submitTimeout = 10 * time.Second

// BalanceReader reads account balances for the accounts endpoint.
type BalanceReader interface {
	Balance(account registry.AccountID) registry.Amount
}

// Server handles HTTP requests for the registry.
type Server struct {
	proc   *processor.Processor
	state  repository.StateReader
	ledger BalanceReader
	bus    *pubsub.Broker[any]
}

// NewServer creates a Server.
func NewServer(proc *processor.Processor, state repository.StateReader, ledger BalanceReader, bus *pubsub.Broker[any]) *Server {
	return &Server{proc: proc, state: state, ledger: ledger, bus: bus}
}

// Routes returns the HTTP mux for the API.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /collectibles", s.handleMint)
	mux.HandleFunc("GET /collectibles", s.handleList)
	mux.HandleFunc("GET /collectibles/{id}", s.handleGet)
	mux.HandleFunc("DELETE /collectibles/{id}", s.handleDestroy)
	mux.HandleFunc("POST /collectibles/{id}/transfer", s.handleTransfer)
	mux.HandleFunc("PUT /collectibles/{id}/price", s.handleSetPrice)
	mux.HandleFunc("DELETE /collectibles/{id}/price", s.handleDelist)
	mux.HandleFunc("POST /collectibles/{id}/buy", s.handleBuy)
	mux.HandleFunc("GET /accounts/{id}", s.handleAccount)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// collectibleView is the JSON shape of a collectible.
type collectibleView struct {
	ID        registry.ID        `json:"id"`
	Owner     registry.AccountID `json:"owner"`
	Price     *registry.Amount   `json:"price,omitempty"`
	Attribute registry.Attribute `json:"attribute"`
}

func toView(c registry.Collectible) collectibleView {
	return collectibleView{
		ID:        c.ID,
		Owner:     c.Owner,
		Price:     c.Price,
		Attribute: c.Attribute,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorErr(log.CatAPI, "failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps domain errors to HTTP status codes. Unknown errors are
// reported as 500 so genuine bugs do not hide behind 4xx responses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrNoCollectible):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, registry.ErrInvalidID),
		errors.Is(err, command.ErrMissingCaller),
		errors.Is(err, command.ErrMissingRecipient):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrTransferToSelf),
		errors.Is(err, registry.ErrNotForSale),
		errors.Is(err, registry.ErrOfferedPriceTooLow),
		errors.Is(err, registry.ErrMaximumOwned),
		errors.Is(err, registry.ErrDuplicateCollectible),
		errors.Is(err, registry.ErrBoundsOverflow),
		errors.Is(err, bank.ErrInsufficientFunds),
		errors.Is(err, bank.ErrBalanceOverflow),
		errors.Is(err, processor.ErrDuplicateCommand):
		return http.StatusConflict
	case errors.Is(err, command.ErrQueueFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// caller extracts the authenticated account or writes a 401.
func caller(w http.ResponseWriter, r *http.Request) (registry.AccountID, bool) {
	account := r.Header.Get(AccountHeader)
	if account == "" {
		writeError(w, http.StatusUnauthorized, errors.New("missing "+AccountHeader+" header"))
		return "", false
	}
	return registry.AccountID(account), true
}

// pathID parses the {id} path segment or writes a 400.
func pathID(w http.ResponseWriter, r *http.Request) (registry.ID, bool) {
	id, err := registry.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return registry.ID{}, false
	}
	return id, true
}

// submit runs a command through the processor and writes the outcome.
// success is invoked with the result when the operation applied.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, cmd command.Command, success func(*command.Result)) {
	ctx, cancel := context.WithTimeout(r.Context(), submitTimeout)
	defer cancel()

	result, err := s.proc.SubmitAndWait(ctx, cmd)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if !result.Success {
		writeError(w, statusFor(result.Error), result.Error)
		return
	}
	success(result)
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	account, ok := caller(w, r)
	if !ok {
		return
	}

	cmd := command.NewMintCommand(command.SourceAPI, account)
	s.submit(w, r, cmd, func(result *command.Result) {
		c, ok := result.Data.(registry.Collectible)
		if !ok {
			writeError(w, http.StatusInternalServerError, errors.New("mint returned no collectible"))
			return
		}
		writeJSON(w, http.StatusCreated, toView(c))
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var collectibles []registry.Collectible
	if owner := r.URL.Query().Get("owner"); owner != "" {
		for _, id := range s.state.Owned(registry.AccountID(owner)) {
			if c, ok := s.state.Get(id); ok {
				collectibles = append(collectibles, c)
			}
		}
	} else {
		collectibles = s.state.All()
	}

	sort.Slice(collectibles, func(i, j int) bool {
		return collectibles[i].ID.String() < collectibles[j].ID.String()
	})

	views := make([]collectibleView, 0, len(collectibles))
	for _, c := range collectibles {
		views = append(views, toView(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":        s.state.Count(),
		"collectibles": views,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, found := s.state.Get(id)
	if !found {
		writeError(w, http.StatusNotFound, registry.ErrNoCollectible)
		return
	}
	writeJSON(w, http.StatusOK, toView(c))
}

func (s *Server) handleDestroy(w http.ResponseWriter, r *http.Request) {
	account, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cmd := command.NewDestroyCommand(command.SourceAPI, account, id)
	s.submit(w, r, cmd, func(*command.Result) {
		w.WriteHeader(http.StatusNoContent)
	})
}

type transferRequest struct {
	To registry.AccountID `json:"to"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	account, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cmd := command.NewTransferCommand(command.SourceAPI, account, req.To, id)
	s.submit(w, r, cmd, func(*command.Result) {
		w.WriteHeader(http.StatusNoContent)
	})
}

type setPriceRequest struct {
	Price registry.Amount `json:"price"`
}

func (s *Server) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	account, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req setPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cmd := command.NewSetPriceCommand(command.SourceAPI, account, id, req.Price)
	s.submit(w, r, cmd, func(*command.Result) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *Server) handleDelist(w http.ResponseWriter, r *http.Request) {
	account, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cmd := command.NewDelistCommand(command.SourceAPI, account, id)
	s.submit(w, r, cmd, func(*command.Result) {
		w.WriteHeader(http.StatusNoContent)
	})
}

type buyRequest struct {
	Offer registry.Amount `json:"offer"`
}

type buyResponse struct {
	ID    registry.ID     `json:"id"`
	Price registry.Amount `json:"price"`
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	account, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cmd := command.NewBuyCommand(command.SourceAPI, account, id, req.Offer)
	s.submit(w, r, cmd, func(result *command.Result) {
		// The settled price comes from the Sold record; it can be below the
		// offer.
		for _, event := range result.Events {
			if sold, ok := event.(registry.Sold); ok {
				writeJSON(w, http.StatusOK, buyResponse{ID: sold.ID, Price: sold.Price})
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

type accountResponse struct {
	Account registry.AccountID `json:"account"`
	Balance registry.Amount    `json:"balance"`
	Owned   []registry.ID      `json:"owned"`
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	account := registry.AccountID(r.PathValue("id"))
	owned := s.state.Owned(account)
	if owned == nil {
		owned = []registry.ID{}
	}
	writeJSON(w, http.StatusOK, accountResponse{
		Account: account,
		Balance: s.ledger.Balance(account),
		Owned:   owned,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"running":   s.proc.IsRunning(),
		"processed": s.proc.ProcessedCount(),
		"errors":    s.proc.ErrorCount(),
		"queue":     s.proc.QueueLength(),
	})
}
