package controller

import (
	"time"

	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/metrics"
	"github.com/google/uuid"
)

/* This file contains transaction handling logic: apply, commit and journal */

// SendTx() applies a transaction against the latest state
// transactions are executed one at a time; a successful transaction is committed as its own height
// every result, including a failed one, is written to the journal
func (c *Controller) SendTx(tx *lib.Transaction) (*lib.TxResult, lib.ErrorI) {
	if tx == nil {
		return nil, ErrNilTransaction()
	}
	// lock the controller for thread safety
	c.Lock()
	defer c.Unlock()
	// tag the execution so its log lines can be followed
	requestID := uuid.NewString()
	log, start := c.log.WithPrefix(requestID), time.Now()
	// apply the transaction; on failure the state machine has already discarded its writes
	result, err := c.FSM.ApplyTransaction(tx)
	if result == nil {
		log.Warnf("Rejected transaction from %s: %s", tx.Sender, err.Error())
		return nil, err
	}
	result.RequestID = requestID
	switch {
	case err == nil:
		// persist the writes as a new height
		if err = c.DB.Commit(); err != nil {
			log.Errorf("Commit of tx %s failed with err: %s", result.TxHash, err.Error())
			return nil, err
		}
		// re-point the state machine at the committed store
		if err = c.FSM.Initialize(c.DB); err != nil {
			return nil, err
		}
		log.Infof("Committed tx %s at height %d with %d events", result.TxHash, result.Height, len(result.Events))
	case lib.IsDefect(err):
		log.Errorf("DEFECT in tx %s: %s", result.TxHash, err.Error())
	default:
		log.Warnf("Tx %s failed: %s", result.TxHash, err.Error())
	}
	// journal the outcome
	if e := c.Journal.Write(result); e != nil {
		log.Errorf("Journaling tx %s failed with err: %s", result.TxHash, e.Error())
	}
	metrics.ObserveTransaction(result, err, time.Since(start))
	metrics.UpdateLedgerMetrics(c.DB.Version(), c.Journal.Len())
	return result, err
}
