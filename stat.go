package smoldb

import "sync/atomic"

type ExportStat struct {
	Inserts         uint64
	Reads           uint64
	Deletes         uint64
	Restarts        uint64
	Rejected        uint64
	StorageWrites   uint64
	StorageFailures uint64
}

type iStat struct {
	inserts         atomic.Uint64
	reads           atomic.Uint64
	deletes         atomic.Uint64
	restarts        atomic.Uint64
	rejected        atomic.Uint64
	storageWrites   atomic.Uint64
	storageFailures atomic.Uint64
}

func (s *iStat) export() ExportStat {
	return ExportStat{
		Inserts:         s.inserts.Load(),
		Reads:           s.reads.Load(),
		Deletes:         s.deletes.Load(),
		Restarts:        s.restarts.Load(),
		Rejected:        s.rejected.Load(),
		StorageWrites:   s.storageWrites.Load(),
		StorageFailures: s.storageFailures.Load(),
	}
}
