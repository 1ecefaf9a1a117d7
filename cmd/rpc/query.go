package rpc

import (
	"net/http"

	"github.com/canopy-network/lphelper/lib"
	"github.com/julienschmidt/httprouter"
)

// Version writes the software version
func (s *Server) Version(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	write(w, SoftwareVersion, http.StatusOK)
}

// Transaction applies a transaction and writes its result
func (s *Server) Transaction(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Create a new instance of lib.Transaction to hold the incoming transaction data.
	tx := new(lib.Transaction)
	// Unmarshal the HTTP request body into the transaction instance.
	if ok := s.unmarshal(w, r, tx); !ok {
		return
	}
	// Apply the transaction through the controller
	s.submitTx(w, tx)
}

// Height responds with the latest committed height
func (s *Server) Height(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	write(w, &heightResponse{Height: s.controller.Height()}, http.StatusOK)
}

// Balance responds with the balance of a single denom
func (s *Server) Balance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(balanceRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	amount, err := s.controller.QueryBalance(req.Address, req.Denom)
	respond(w, &balanceResponse{Address: req.Address, Amount: lib.AssetAmount{Denom: req.Denom, Amount: amount}}, err)
}

// Balances responds with every non-zero balance of an address
func (s *Server) Balances(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(addressRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	balances, err := s.controller.QueryBalances(req.Address)
	if balances == nil {
		balances = lib.Basket{}
	}
	respond(w, balances, err)
}

// Supply responds with the total supply of a denom
func (s *Server) Supply(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(denomRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	supply, err := s.controller.QuerySupply(req.Denom)
	respond(w, &supplyResponse{Supply: lib.AssetAmount{Denom: req.Denom, Amount: supply}}, err)
}

// Contract forwards a smart query to a contract and writes its raw answer
func (s *Server) Contract(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(contractRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	resp, err := s.controller.QuerySmart(req.Address, req.Msg)
	respond(w, resp, err)
}

// Contracts lists every contract instance
func (s *Server) Contracts(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	contracts, err := s.controller.QueryContracts()
	respond(w, contracts, err)
}

// Pool responds with the reserves and share supply of a pair
func (s *Server) Pool(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(addressRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	pool, err := s.controller.QueryPool(req.Address)
	respond(w, pool, err)
}

// FeeInfo responds with the fee schedule of a pool type as resolved by a helper
func (s *Server) FeeInfo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(feeInfoRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	info, err := s.controller.QueryFeeInfo(req.Helper, req.PairType)
	respond(w, info, err)
}

// Factory responds with the factory a helper is bound to
func (s *Server) Factory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(helperRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	factory, err := s.controller.QueryFactory(req.Helper)
	respond(w, &factoryResponse{Factory: factory}, err)
}

// Helper responds with the helper instance the request resolves to
func (s *Server) Helper(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(helperRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	resolved, err := s.controller.QueryHelper(req.Helper)
	respond(w, &helperResponse{Helper: resolved}, err)
}

// TransactionByHash responds with a journaled transaction result
func (s *Server) TransactionByHash(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(hashRequest)
	if ok := s.unmarshal(w, r, req); !ok {
		return
	}
	result, err := s.controller.QueryTx(req.Hash)
	if err != nil && lib.ErrorIs(err, lib.NewError(lib.CodeJournalNotFound, lib.JournalModule, "")) {
		write(w, err, http.StatusNotFound)
		return
	}
	respond(w, result, err)
}

// respond writes the payload, or the error as a bad request
func respond(w http.ResponseWriter, payload any, err lib.ErrorI) {
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	write(w, payload, http.StatusOK)
}
