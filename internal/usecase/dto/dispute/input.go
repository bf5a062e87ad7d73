package disputedto

type OpenDisputeInput struct {
	PostID    uint64
	Disputant string
	Reason    string
}

type VoteInput struct {
	PostID  uint64
	Voter   string
	Approve bool
}
