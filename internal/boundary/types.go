package boundary

// Wire types for the Boundary-compatible IAM API.
// Only the fields this action reads or writes are declared.

type authenticateRequest struct {
	Attributes authenticateAttributes `json:"attributes"`
}

type authenticateAttributes struct {
	LoginName string `json:"login_name"`
	Password  string `json:"password"`
}

type authenticateResponse struct {
	Attributes tokenAttributes `json:"attributes"`
}

type tokenAttributes struct {
	Token string `json:"token"`
}

// groupResponse carries the version as a pointer so a payload without a
// version counter is distinguishable from version 0.
type groupResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version *int   `json:"version"`
}

type removeMembersRequest struct {
	Version   int      `json:"version"`
	MemberIDs []string `json:"member_ids"`
}

// Group is the subset of group metadata the removal sequence needs. Version
// is the optimistic-concurrency counter the server increments on each
// mutation; the removal call must present the value read here.
type Group struct {
	ID      string
	Name    string
	Version int
}
