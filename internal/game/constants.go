package game

const (
	// MissionCount is the number of missions in a session. Once the last one
	// is resolved the session is terminal.
	MissionCount = 5

	// FirstIndex is the starting mission and proposal index.
	FirstIndex = 1

	// JoinCodeLength is the length of generated join codes
	JoinCodeLength = 4

	// JoinCodeChars are the characters used for generating join codes (no letter O)
	JoinCodeChars = "ABCDEFGHIJKLMNPQRSTUVWXYZ123456789"
)
