package csvio

import (
	"encoding/csv"
	"io"
	"iter"
	"strconv"

	"github.com/iho/txledger/internal/domain"
)

var snapshotHeader = []string{"client", "available", "held", "total", "locked"}

// WriteAccounts writes one row per account in the order produced by accounts.
func WriteAccounts(w io.Writer, accounts iter.Seq2[domain.ClientID, domain.Account]) error {
	return writeRows(w, func(yield func(domain.AccountSnapshot) bool) {
		for id, account := range accounts {
			if !yield(domain.NewAccountSnapshot(id, account)) {
				return
			}
		}
	})
}

// WriteSnapshots writes previously captured account snapshots.
func WriteSnapshots(w io.Writer, snapshots []domain.AccountSnapshot) error {
	return writeRows(w, func(yield func(domain.AccountSnapshot) bool) {
		for _, s := range snapshots {
			if !yield(s) {
				return
			}
		}
	})
}

func writeRows(w io.Writer, rows iter.Seq[domain.AccountSnapshot]) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(snapshotHeader); err != nil {
		return err
	}

	record := make([]string, len(snapshotHeader))
	for s := range rows {
		record[0] = strconv.FormatUint(uint64(s.Client), 10)
		record[1] = s.Available.String()
		record[2] = s.Held.String()
		record[3] = s.Total.String()
		record[4] = strconv.FormatBool(s.Locked)

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
