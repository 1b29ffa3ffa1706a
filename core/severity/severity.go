package severity

type Severity int

func (this Severity) String() string {
	switch this {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Information:
		return "info"
	}
	return "???"
}

const (
	InvalidSeverity Severity = iota

	Error
	Warning
	Information
)
