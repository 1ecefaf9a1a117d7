package journal

import (
	"fmt"

	"github.com/canopy-network/lphelper/lib"
)

func ErrOpenJournal(err error) lib.ErrorI {
	return lib.NewError(lib.CodeOpenJournal, lib.JournalModule, fmt.Sprintf("openJournal() failed with err: %s", err.Error()))
}

func ErrJournalWrite(err error) lib.ErrorI {
	return lib.NewError(lib.CodeJournalWrite, lib.JournalModule, fmt.Sprintf("journal.write() failed with err: %s", err.Error()))
}

func ErrJournalNotFound(hash string) lib.ErrorI {
	return lib.NewError(lib.CodeJournalNotFound, lib.JournalModule, fmt.Sprintf("no journaled result for tx %s", hash))
}

func ErrJournalClose(err error) lib.ErrorI {
	return lib.NewError(lib.CodeJournalClose, lib.JournalModule, fmt.Sprintf("closeJournal() failed with err: %s", err.Error()))
}

func ErrJournalCorrupt(key string, err error) lib.ErrorI {
	return lib.NewError(lib.CodeJournalCorrupt, lib.JournalModule, fmt.Sprintf("journal record %s is corrupt: %s", key, err.Error()))
}
