package controller

import (
	"sync"

	"github.com/canopy-network/lphelper/dex"
	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/helper"
	"github.com/canopy-network/lphelper/journal"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/metrics"
	"github.com/canopy-network/lphelper/store"
)

// Controller acts as the 'manager' of the modules of the application
type Controller struct {
	DB      lib.StoreI        // the root store; committed once per successful transaction
	FSM     *fsm.StateMachine // applies transactions against DB
	Journal *journal.Journal  // every transaction result, successful or not
	Config  lib.Config
	log     lib.LoggerI
	sync.Mutex
}

// Codes() is the registry of contract implementations the ledger hosts
func Codes() fsm.Codes {
	return fsm.Codes{
		dex.FactoryCode: dex.Factory{},
		dex.PairCode:    dex.Pair{},
		helper.Code:     helper.Helper{},
	}
}

// New() creates a new instance of a Controller, this is the entry point when initializing an instance of the application
// a fresh store is populated from genesis; a nil genesis is read from the data directory
func New(c lib.Config, genesis *fsm.GenesisState, l lib.LoggerI) (*Controller, lib.ErrorI) {
	// open the state store
	db, err := store.New(c, l.WithPrefix("store"))
	if err != nil {
		return nil, err
	}
	// initialize the state machine at the latest committed height
	sm, err := fsm.New(c, db, Codes(), l.WithPrefix("fsm"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	controller := &Controller{
		DB:     db,
		FSM:    sm,
		Config: c,
		log:    l,
		Mutex:  sync.Mutex{},
	}
	// an empty store starts from genesis
	if db.Version() == 0 {
		if err = controller.applyGenesis(genesis); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	// open the result journal
	controller.Journal, err = journal.New(c, l.WithPrefix("journal"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return controller, nil
}

// Start() begins the Controller service
func (c *Controller) Start() {
	c.log.Infof("Ledger ready at height %d with %d journaled transactions", c.Height(), c.Journal.Len())
	metrics.UpdateLedgerMetrics(c.Height(), c.Journal.Len())
}

// Stop() gracefully stops the Controller service
func (c *Controller) Stop() {
	c.Lock()
	defer c.Unlock()
	if err := c.Journal.Close(); err != nil {
		c.log.Errorf("closing the journal failed with err: %s", err.Error())
	}
	if err := c.DB.Close(); err != nil {
		c.log.Errorf("closing the store failed with err: %s", err.Error())
	}
}

// Height() is the latest committed height
func (c *Controller) Height() uint64 { return c.DB.Version() }

// applyGenesis() populates and commits the initial state
func (c *Controller) applyGenesis(genesis *fsm.GenesisState) (err lib.ErrorI) {
	if genesis == nil {
		if genesis, err = fsm.ReadGenesisFromFile(c.Config.DataDirPath); err != nil {
			return
		}
	}
	if err = c.FSM.ApplyGenesis(genesis); err != nil {
		return
	}
	if err = c.DB.Commit(); err != nil {
		return
	}
	c.log.Infof("Genesis applied: %d balances, %d contracts, %d executions",
		len(genesis.Balances), len(genesis.Contracts), len(genesis.Executions))
	return c.FSM.Initialize(c.DB)
}
