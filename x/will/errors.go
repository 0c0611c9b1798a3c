package will

import "github.com/iov-one/testament/errors"

var (
	ErrNotYetDue          = errors.Register(1100, "not yet due")
	ErrAlreadyApproved    = errors.Register(1101, "already approved")
	ErrNotAnExecutor      = errors.Register(1102, "not an executor")
	ErrAllocationOverflow = errors.Register(1103, "allocation overflow")
	ErrNoBeneficiaries    = errors.Register(1104, "no beneficiaries")
	ErrAlreadyExecuted    = errors.Register(1105, "already executed")
	ErrQuorum             = errors.Register(1106, "quorum not reached")
	ErrConstruction       = errors.Register(1107, "invalid will construction")
)
