package domain

// Result is the outcome of one registration run: Committed or RolledBack.
type Result interface {
	result()
}

type Committed struct {
	Booking *Booking
	// Locator is where the certificate was stored.
	Locator string
}

// RolledBack means the provisional booking was removed. CompensationErr is
// set when the removal itself failed.
type RolledBack struct {
	Stage           string
	Reason          error
	CompensationErr error
}

func (Committed) result()  {}
func (RolledBack) result() {}

const (
	StageValidate  = "validate"
	StageDuplicate = "duplicate_check"
	StageEvent     = "event_lookup"
	StageCode      = "code"
	StagePersist   = "persist"
	StageRender    = "render"
	StageStore     = "store"
	StageMail      = "mail"
	StageCommit    = "commit"
)
