package rpc

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// RPC Paths
const (
	VersionRoutePath       = "/v1/"
	TxRoutePath            = "/v1/tx"
	HeightRoutePath        = "/v1/query/height"
	BalanceRoutePath       = "/v1/query/balance"
	BalancesRoutePath      = "/v1/query/balances"
	SupplyRoutePath        = "/v1/query/supply"
	ContractRoutePath      = "/v1/query/contract"
	ContractsRoutePath     = "/v1/query/contracts"
	PoolRoutePath          = "/v1/query/pool"
	FeeInfoRoutePath       = "/v1/query/fee-info"
	FactoryRoutePath       = "/v1/query/factory"
	HelperRoutePath        = "/v1/query/helper"
	TxByHashRoutePath      = "/v1/query/tx"
	// admin
	ResourceUsageRoutePath = "/v1/admin/resource-usage"
	ConfigRoutePath        = "/v1/admin/config"
	LogsRoutePath          = "/v1/admin/log"
)

const (
	VersionRouteName       = "version"
	TxRouteName            = "tx"
	HeightRouteName        = "height"
	BalanceRouteName       = "balance"
	BalancesRouteName      = "balances"
	SupplyRouteName        = "supply"
	ContractRouteName      = "contract"
	ContractsRouteName     = "contracts"
	PoolRouteName          = "pool"
	FeeInfoRouteName       = "fee-info"
	FactoryRouteName       = "factory"
	HelperRouteName        = "helper"
	TxByHashRouteName      = "tx-by-hash"
	// admin
	ResourceUsageRouteName = "resource-usage"
	ConfigRouteName        = "config"
	LogsRouteName          = "logs"
)

// routes contains the method and path for a command
type routes map[string]struct {
	Method string
	Path   string
}

// routePaths is a mapping from route names to their corresponding HTTP methods and paths.
var routePaths = routes{
	VersionRouteName:       {Method: http.MethodGet, Path: VersionRoutePath},
	TxRouteName:            {Method: http.MethodPost, Path: TxRoutePath},
	HeightRouteName:        {Method: http.MethodPost, Path: HeightRoutePath},
	BalanceRouteName:       {Method: http.MethodPost, Path: BalanceRoutePath},
	BalancesRouteName:      {Method: http.MethodPost, Path: BalancesRoutePath},
	SupplyRouteName:        {Method: http.MethodPost, Path: SupplyRoutePath},
	ContractRouteName:      {Method: http.MethodPost, Path: ContractRoutePath},
	ContractsRouteName:     {Method: http.MethodPost, Path: ContractsRoutePath},
	PoolRouteName:          {Method: http.MethodPost, Path: PoolRoutePath},
	FeeInfoRouteName:       {Method: http.MethodPost, Path: FeeInfoRoutePath},
	FactoryRouteName:       {Method: http.MethodPost, Path: FactoryRoutePath},
	HelperRouteName:        {Method: http.MethodPost, Path: HelperRoutePath},
	TxByHashRouteName:      {Method: http.MethodPost, Path: TxByHashRoutePath},
	// admin
	ResourceUsageRouteName: {Method: http.MethodGet, Path: ResourceUsageRoutePath},
	ConfigRouteName:        {Method: http.MethodGet, Path: ConfigRoutePath},
	LogsRouteName:          {Method: http.MethodGet, Path: LogsRoutePath},
}

// httpRouteHandlers is a custom type that maps strings to httprouter handle functions
type httpRouteHandlers map[string]httprouter.Handle

// createRouter initializes and returns a new HTTP router with predefined route handlers.
func createRouter(s *Server) *httprouter.Router {
	var r = httpRouteHandlers{
		VersionRouteName:       s.Version,
		TxRouteName:            s.Transaction,
		HeightRouteName:        s.Height,
		BalanceRouteName:       s.Balance,
		BalancesRouteName:      s.Balances,
		SupplyRouteName:        s.Supply,
		ContractRouteName:      s.Contract,
		ContractsRouteName:     s.Contracts,
		PoolRouteName:          s.Pool,
		FeeInfoRouteName:       s.FeeInfo,
		FactoryRouteName:       s.Factory,
		HelperRouteName:        s.Helper,
		TxByHashRouteName:      s.TransactionByHash,
		// admin
		ResourceUsageRouteName: s.ResourceUsage,
		ConfigRouteName:        s.Config,
		LogsRouteName:          logsHandler(s),
	}

	// Initialize a new router using the httprouter package.
	router := httprouter.New()

	for name, handler := range r {
		// Retrieve the path configuration for the current route name.
		path := routePaths[name]

		// Add the handler for the specific path and HTTP method to the router.
		router.Handle(path.Method, path.Path, logHandler{path.Path, handler, s.logger}.Handle)
	}

	return router
}
