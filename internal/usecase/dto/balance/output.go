package balancedto

type BalanceOutput struct {
	ParticipantID string
	Available     uint64
	Locked        uint64
}
