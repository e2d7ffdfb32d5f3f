package pipeline

// Kind classifies how a stage ended.
type Kind int

const (
	// Success means the stage finished without findings.
	Success Kind = iota
	// SoftFailure means the stage finished with warnings; the run continues.
	SoftFailure
	// HardFailure stops the run.
	HardFailure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case SoftFailure:
		return "soft_failure"
	case HardFailure:
		return "hard_failure"
	}
	return "unknown"
}

// Outcome is what a stage hands back to the driver.
type Outcome struct {
	Kind Kind
	// Reason is printed when the stage is a HardFailure.
	Reason string
	// Errors and Warnings are added to the run summary whatever the Kind.
	Errors   []string
	Warnings []string
}

// RunConfiguration selects the stages of a run. Validation always runs.
type RunConfiguration struct {
	Build   bool
	Deploy  bool
	Launch  bool
	Clean   bool
	Message string
}

// DefaultMessage is the commit message used when none is given.
const DefaultMessage = "Automated build and deployment"

// Exit codes returned by Driver.Run.
const (
	ExitOK      = 0
	ExitFailure = 1
)
