package ports

type SimMetrics interface {
	RecordTurn()
	RecordMove()
	RecordConflict()
	RecordKill()
	RecordStarvation()
	RecordDeposit()
	SnapshotAny() any
}
