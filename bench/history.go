package bench

import (
	"fmt"
	"sync"

	"github.com/sgostarter/i/stg"
	"github.com/sgostarter/libeasygo/pathutils"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
)

const historyFile = "history.json"

// History keeps benchmark reports in a JSON file under its root directory.
type History struct {
	d *mwf.MemWithFile[[]Report, mwf.Serial, mwf.Lock]
}

func NewHistory(root string) (*History, error) {
	if err := pathutils.MustDirExists(root); err != nil {
		return nil, fmt.Errorf("history root %s: %w", root, err)
	}

	return NewHistoryEx(historyFile, rawfs.NewFSStorage(root)), nil
}

func NewHistoryEx(file string, storage stg.FileStorage) *History {
	if storage == nil {
		storage = rawfs.NewFSStorage("")
	}

	return &History{
		d: mwf.NewMemWithFile[[]Report, mwf.Serial, mwf.Lock](make([]Report, 0),
			&mwf.JSONSerial{}, &sync.RWMutex{}, file, storage),
	}
}

func (h *History) Append(r Report) error {
	return h.d.Change(func(v []Report) (newV []Report, err error) {
		newV = append(v, r)

		return
	})
}

func (h *History) Reports() (reports []Report) {
	h.d.Read(func(v []Report) {
		reports = append(reports, v...)
	})

	return
}

// Latest returns the most recent report of the named learner.
func (h *History) Latest(learnerName string) (report Report, exists bool) {
	h.d.Read(func(v []Report) {
		for idx := len(v) - 1; idx >= 0; idx-- {
			if v[idx].Learner == learnerName {
				report, exists = v[idx], true

				return
			}
		}
	})

	return
}
