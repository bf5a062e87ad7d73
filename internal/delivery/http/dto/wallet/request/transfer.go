package request

// TransferRequest moves tokens between a participant's wallet and the moderation escrow.
type TransferRequest struct {
	ParticipantID string `json:"participantId"`
	Amount        uint64 `json:"amount"`
	Reference     string `json:"reference"`
}
