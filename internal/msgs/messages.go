package msgs

const (
	MsgOperationFailed     = "operation failed"
	MsgOperationSuccessful = "operation successful"
	MsgRoomEnsured         = "room ensured"
	MsgTokenIssued         = "token issued"
	MsgYouMustLoginFirst   = "you must provide a valid token first"
)
